package daemon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nodesman/voice-recorder/internal/artifact"
	"github.com/nodesman/voice-recorder/internal/bus"
	"github.com/nodesman/voice-recorder/internal/capture"
	"github.com/nodesman/voice-recorder/internal/config"
	"github.com/nodesman/voice-recorder/internal/convert"
	"github.com/nodesman/voice-recorder/internal/gate"
	"github.com/nodesman/voice-recorder/internal/inject"
	"github.com/nodesman/voice-recorder/internal/notify"
	"github.com/nodesman/voice-recorder/internal/overlay"
	"github.com/nodesman/voice-recorder/internal/retry"
	"github.com/nodesman/voice-recorder/internal/session"
	"github.com/nodesman/voice-recorder/internal/transcribe"
)

type Daemon struct {
	manager  *config.Manager
	notifier notify.Notifier
	window   overlay.Window
	machine  *session.Machine
	gate     *gate.Gate

	ctx    context.Context
	cancel context.CancelFunc
}

// recorderAdapter narrows *capture.Session to the machine's Capture
// interface.
type recorderAdapter struct {
	recorder *capture.Recorder
}

func (a recorderAdapter) Begin(ctx context.Context) (session.Capture, error) {
	s, err := a.recorder.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// configuredUploader rebuilds the upload client from the live config on
// every attempt, so key and model changes apply without a restart.
type configuredUploader struct {
	manager *config.Manager
}

func (u configuredUploader) Transcribe(ctx context.Context, path string) (string, error) {
	cfg := u.manager.GetConfig()
	uploader := transcribe.NewOpenAIUploader(
		cfg.APIKey(),
		cfg.ResolveBaseURL(),
		cfg.Transcription.Model,
		cfg.Transcription.Language,
	)
	return uploader.Transcribe(ctx, path)
}

func New(manager *config.Manager) (*Daemon, error) {
	cfg := manager.GetConfig()

	notifier := notify.ForType(cfg.Notifications.Enabled, cfg.Notifications.Type)

	window := overlay.NewCommandWindow(overlay.Commands{
		Show:        cfg.Overlay.ShowCommand,
		ShowNoFocus: cfg.Overlay.ShowNoFocusCommand,
		Hide:        cfg.Overlay.HideCommand,
		Recreate:    cfg.Overlay.RecreateCommand,
		Timeout:     cfg.Overlay.CommandTimeout,
	})

	injector, err := inject.NewInjector(inject.Config{
		PasteBackends:    cfg.Injection.PasteBackends,
		ClipboardBackend: cfg.Injection.ClipboardBackend,
		PasteTimeout:     cfg.Injection.PasteTimeout,
		ClipboardTimeout: cfg.Injection.ClipboardTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up text injection: %w", err)
	}

	recorder := capture.NewRecorder(capture.Config{
		SampleRate: cfg.Recording.SampleRate,
		Channels:   cfg.Recording.Channels,
		Format:     cfg.Recording.Format,
		Device:     cfg.Recording.Device,
		BufferSize: cfg.Recording.BufferSize,
		Timeout:    cfg.Recording.Timeout,
	})

	converter := convert.New(convert.Config{
		SampleRate:         cfg.Recording.SampleRate,
		Channels:           cfg.Recording.Channels,
		Bitrate:            cfg.Conversion.Bitrate,
		SilenceThreshold:   cfg.Conversion.SilenceThreshold,
		SilenceMinDuration: cfg.Conversion.SilenceMinDuration,
	})

	store := artifact.NewStore("")
	op := transcribe.NewOperation(configuredUploader{manager: manager}, injector, injector, window)

	ctx, cancel := context.WithCancel(context.Background())
	ctrl := retry.New(store.Dispose, func() { window.Hide(context.Background()) })

	machine := session.NewMachine(
		recorderAdapter{recorder: recorder},
		store,
		converter,
		op,
		ctrl,
		window,
		notifier,
	)

	return &Daemon{
		manager:  manager,
		notifier: notifier,
		window:   window,
		machine:  machine,
		gate:     gate.New(machine, window),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.manager.StartWatching(d.ctx); err != nil {
		log.Printf("Daemon: config watching disabled: %v", err)
	}
	defer d.manager.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully", sig)
		d.cancel()
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("Daemon started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Shutdown requested")
				d.machine.Shutdown()
				return nil
			}
			log.Printf("Accept error: %v", err)
			d.machine.Shutdown()
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	if len(line) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}
	cmd := line[0]

	switch cmd {
	case bus.CmdToggle:
		action := d.gate.Activate(d.ctx)
		fmt.Fprintf(c, "OK toggled action=%s\n", action)
	case bus.CmdRetry:
		if err := d.machine.Retry(d.ctx); err != nil {
			fmt.Fprintf(c, "ERR retry: %v\n", err)
			return
		}
		fmt.Fprint(c, "OK retrying\n")
	case bus.CmdCancel:
		d.cancelCurrent()
		fmt.Fprint(c, "OK cancelled\n")
	case bus.CmdStatus:
		fmt.Fprintf(c, "STATUS state=%s retry_pending=%v\n",
			d.machine.State(), d.machine.RetryPending())
	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)
	case bus.CmdQuit:
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()
	default:
		log.Printf("Unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

// cancelCurrent discards an in-flight recording, or throws away a
// suspended failed attempt. Outside those states it is a no-op.
func (d *Daemon) cancelCurrent() {
	if d.machine.State() == session.Recording {
		d.machine.Stop(d.ctx, false)
		return
	}
	d.machine.CancelPending(d.ctx)
}
