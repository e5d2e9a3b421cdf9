package main

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/urfave/cli/v2"

	"github.com/obexkit/obexkit/config"
	"github.com/obexkit/obexkit/internal/export"
	"github.com/obexkit/obexkit/internal/journal"
	"github.com/obexkit/obexkit/internal/obex"
	"github.com/obexkit/obexkit/internal/session"
	"github.com/obexkit/obexkit/internal/transfer"
	"github.com/obexkit/obexkit/pkg/env"
	"github.com/obexkit/obexkit/pkg/logging"
)

func main() {

	env.LoadEnv()
	config.LoadConfig(".")
	logging.InitLogger(config.Config.Debug)

	app := &cli.App{
		Name:  "obex-client",
		Usage: "Move objects to and from a peer over an object-exchange session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Value: ".",
				Usage: "directory backing the loopback peer",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "expose transfers on the session bus",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "get",
				Aliases: []string{"g"},
				Usage:   "Download an object from the peer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "remote object name"},
					&cli.StringFlag{Name: "out", Usage: "local destination file"},
					&cli.StringFlag{Name: "type", Usage: "declared MIME type"},
				},
				Action: runGet,
			},
			{
				Name:    "put",
				Aliases: []string{"p"},
				Usage:   "Upload a local file to the peer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true, Usage: "local source file"},
					&cli.StringFlag{Name: "name", Required: true, Usage: "remote object name"},
					&cli.StringFlag{Name: "type", Usage: "declared MIME type"},
				},
				Action: runPut,
			},
			{
				Name:   "history",
				Usage:  "List journaled transfer outcomes",
				Action: runHistory,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Log.Fatal(err)
	}
}

func newSession(c *cli.Context) (*session.Session, *obex.Loopback) {
	peer := obex.NewLoopback(c.String("root"), config.Config.ChunkSize, 0)

	var pub transfer.Publisher
	if c.Bool("publish") {
		conn, err := dbus.SessionBus()
		if err != nil {
			logging.Log.Warnf("session bus unavailable, transfers not published: %v", err)
		} else {
			pub = export.NewPublisher(conn)
		}
	}

	return session.New(peer, config.Config.Agent, pub), peer
}

func runGet(c *cli.Context) error {
	sess, peer := newSession(c)

	t, err := sess.Register(c.String("name"), c.String("out"), c.String("type"), nil)
	if err != nil {
		return err
	}
	defer t.Unregister()

	var terminalErr error
	err = t.Get(func(t *transfer.Transfer, transferred int64, err error) {
		if err != nil {
			terminalErr = err
			return
		}
		logging.Log.Infof("📥 %s: %d/%d bytes", t.Name(), transferred, t.Size())
	})
	if err != nil {
		return err
	}

	peer.Pump()
	return finish(t, terminalErr)
}

func runPut(c *cli.Context) error {
	sess, peer := newSession(c)

	t, err := sess.Register(c.String("name"), c.String("file"), c.String("type"), nil)
	if err != nil {
		return err
	}
	defer t.Unregister()

	var terminalErr error
	err = t.Put(func(t *transfer.Transfer, transferred int64, err error) {
		if err != nil {
			terminalErr = err
			return
		}
		logging.Log.Infof("📤 %s: %d/%d bytes", t.Name(), transferred, t.Size())
	})
	if err != nil {
		return err
	}

	peer.Pump()
	return finish(t, terminalErr)
}

// finish journals the terminal outcome and maps a failed transfer to a
// process error.
func finish(t *transfer.Transfer, terminalErr error) error {
	store, err := journal.Open(config.Config.JournalPath)
	if err != nil {
		logging.Log.Warnf("journal unavailable: %v", err)
	} else {
		defer store.Close()
		rec := journal.NewRecord(t.Name(), t.Filename(), string(t.Direction()),
			t.Size(), t.Transferred(), string(t.Status()), terminalErr)
		if err := store.Append(rec); err != nil {
			logging.Log.Warnf("failed to journal transfer: %v", err)
		}
	}

	if terminalErr != nil {
		return fmt.Errorf("transfer failed: %w", terminalErr)
	}
	logging.Log.Infof("✅ %s finished (%d bytes)", t.Name(), t.Transferred())
	return nil
}

func runHistory(c *cli.Context) error {
	store, err := journal.Open(config.Config.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No journaled transfers")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-4s %-10s %s (%d/%d bytes)\n",
			rec.ID[:8], rec.Direction, rec.Status, rec.Name, rec.Transferred, rec.Size)
	}
	return nil
}
