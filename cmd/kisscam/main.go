package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/compositor"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/gallery"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/kafka/consumer"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/handlers/slogpretty"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"
)

const usage = `usage: kisscam <command> [flags]

commands:
  gallery                  show the live gallery, refreshed every GALLERY_POLL_INTERVAL
  list                     print stored photos, newest first
  upload <file>...         upload JPEG or PNG photos
  delete <id>...           delete stored photos
  download [flags] <id>    save a photo, framed or original
  frames                   print the available frames
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.MustLoadClient()

	verbose := os.Getenv("KISSCAM_DEBUG") != ""
	log := setupLogger(verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := gallery.NewClientFromConfig(cfg)

	var err error

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "gallery":
		err = runGallery(ctx, log, cfg, client)
	case "list":
		err = runList(ctx, client, os.Stdout)
	case "upload":
		err = runUpload(ctx, log, client, args)
	case "delete":
		err = runDelete(ctx, log, client, args)
	case "download":
		err = runDownload(ctx, log, client, args)
	case "frames":
		err = runFrames(os.Stdout)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, gallery.ErrTokenNotConfigured) {
			log.Error("set UPLOAD_TOKEN to upload or delete photos")
		} else {
			log.Error("command failed", sl.Err(err))
		}
		os.Exit(1)
	}
}

func runGallery(ctx context.Context, log *slog.Logger, cfg *config.Client, client *gallery.Client) error {
	log.Info("opening gallery", slog.String("base_url", client.BaseURL()), slog.Duration("interval", cfg.PollInterval))

	poller := gallery.NewPoller(log, client, cfg.PollInterval, func(s gallery.State) {
		printState(os.Stdout, client, s)
	})

	if cfg.Kafka.Enabled() {
		kafkaConsumer, err := consumer.NewConsumer(&cfg.Kafka, log)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		defer func() {
			if err := kafkaConsumer.Close(); err != nil {
				log.Error("failed to close kafka consumer", sl.Err(err))
			}
		}()

		go kafkaConsumer.ReadEvents(ctx, func(ctx context.Context, e events.Event) error {
			log.Debug("image event received", slog.String("type", string(e.Type)), slog.String("image_id", e.ImageID))

			err := poller.Refresh(ctx, false)
			if errors.Is(err, gallery.ErrPollerStopped) {
				return nil
			}
			return err
		})
	}

	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()

	return nil
}

func printState(w io.Writer, client *gallery.Client, s gallery.State) {
	if s.Loading {
		fmt.Fprintln(w, "refreshing...")
		return
	}

	if s.Err != nil {
		fmt.Fprintf(w, "could not load photos: %v\n", s.Err)
		if len(s.Images) == 0 {
			return
		}
	}

	if len(s.Images) == 0 {
		fmt.Fprintln(w, "no photos yet")
		return
	}

	fmt.Fprintf(w, "%d photos, updated %s\n", len(s.Images), s.UpdatedAt.Format(time.TimeOnly))
	for _, img := range s.Images {
		fmt.Fprintf(w, "  %s  %s\n", img.CreatedAt.Local().Format(time.DateTime), client.ImageURL(img.ID))
	}
}

func runList(ctx context.Context, client *gallery.Client, w io.Writer) error {
	images, err := client.ListImages(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tURL")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", img.ID, img.CreatedAt.Local().Format(time.DateTime), client.ImageURL(img.ID))
	}

	return tw.Flush()
}

func runUpload(ctx context.Context, log *slog.Logger, client *gallery.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("upload: at least one file is required")
	}

	for _, path := range args {
		mimeType, ok := storage.MimeTypeFromName(path)
		if !ok {
			return fmt.Errorf("upload: %s: only .jpg, .jpeg and .png files are supported", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}

		ext, _ := storage.ExtensionForMimeType(mimeType)
		name := "kisscam-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "." + ext

		log.Info("uploading", slog.String("file", path), slog.Int("size", len(data)))

		uploaded, err := client.Upload(ctx, name, data, mimeType)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}

		fmt.Fprintf(os.Stdout, "%s\t%s\n", uploaded.ID, client.BaseURL()+uploaded.URL)
	}

	return nil
}

func runDelete(ctx context.Context, log *slog.Logger, client *gallery.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("delete: at least one id is required")
	}

	for _, id := range args {
		if err := client.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		log.Info("photo deleted", slog.String("image_id", id))
	}

	return nil
}

func runDownload(ctx context.Context, log *slog.Logger, client *gallery.Client, args []string) error {
	fset := flag.NewFlagSet("download", flag.ContinueOnError)
	frameID := fset.String("frame", frames.NoneID, "frame to apply")
	original := fset.Bool("original", false, "save the photo as uploaded, without a frame")
	outDir := fset.String("out", ".", "directory to save into")
	framesDir := fset.String("frames-dir", "", "directory with frame assets overriding the built-in ones")

	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return errors.New("download: exactly one id is required")
	}
	id := fset.Arg(0)
	if !storage.ValidateID(id) {
		return fmt.Errorf("download: invalid image id %q", id)
	}

	catalog := frames.Default()
	if *framesDir != "" {
		var err error
		if catalog, err = frames.FromDir(*framesDir); err != nil {
			return fmt.Errorf("download: %w", err)
		}
	}

	if _, ok := catalog.Get(*frameID); !ok {
		return fmt.Errorf("download: %w: %s", compositor.ErrUnknownFrame, *frameID)
	}

	file, err := client.FetchImage(ctx, id)
	if err != nil {
		return fmt.Errorf("download %s: %w", id, err)
	}

	name := id
	data := file.Body

	if !*original {
		data, err = compositor.Render(file.Body, catalog, *frameID)
		if err != nil {
			return fmt.Errorf("download %s: %w", id, err)
		}
		name = compositor.FileName(*frameID, time.Now())
	}

	if err = os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	path := filepath.Join(*outDir, name)
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	log.Info("photo saved", slog.String("path", path), slog.String("frame", *frameID), slog.Bool("original", *original))

	return nil
}

func runFrames(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tPORTRAIT\tLANDSCAPE")
	for _, f := range frames.Default().List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Label, dash(f.Portrait), dash(f.Landscape))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	return slog.New(opts.NewPrettyHandler(os.Stderr))
}
