package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	webchat "github.com/webchat-dev/webchat/app"
	"github.com/webchat-dev/webchat/core"
	"github.com/webchat-dev/webchat/render"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms you are a member of",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.Wait() // the resume already triggered a refresh
		render.Text(os.Stdout, a.Snapshot())
		return nil
	},
}

var flagPrivate bool

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a room",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.CreateRoom(strings.Join(args, " "), !flagPrivate)
		a.Wait()
		return reportStatus(a.Snapshot())
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <chat-id>",
	Short: "Join a room by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid chat id %q", args[0])
		}
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.JoinRoom(roomID)
		a.Wait()
		return reportStatus(a.Snapshot())
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <chat-id>",
	Short: "Look up a room by id, member or not",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.Search(args[0])
		a.Wait()
		snap := a.Snapshot()
		if snap.Overlay == nil {
			return reportStatus(snap)
		}
		render.Text(os.Stdout, snap)
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <chat-id> <message...>",
	Short: "Send a message to a room",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid chat id %q", args[0])
		}
		a, teardown, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.Post(roomID, strings.Join(args[1:], " "))
		a.Wait()
		return reportStatus(a.Snapshot())
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <chat-id>",
	Short: "Select a room and keep its transcript in sync",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid chat id %q", args[0])
		}

		repaint := func(snap core.Snapshot) {
			fmt.Print("\033[H\033[2J")
			render.Text(os.Stdout, snap)
		}
		a, teardown, err := newApp(cmd, webchat.WithOnChange(repaint))
		if err != nil {
			return err
		}
		defer teardown()

		if _, err := resume(a); err != nil {
			return err
		}
		a.Wait() // let the refresh land before selecting
		a.Select(roomID)

		<-cmd.Context().Done()
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVar(&flagPrivate, "private", false, "create the room as private")
	rootCmd.AddCommand(roomsCmd, createCmd, joinCmd, searchCmd, sendCmd, watchCmd)
}
