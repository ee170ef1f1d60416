package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SergeyParamoshkin/dealnotes/client"
	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

type options struct {
	addr    string
	userID  string
	timeout time.Duration
	now     func() time.Time
}

func (o *options) client() *client.Client {
	c := client.New(strings.TrimSuffix(o.addr, "/"))
	c.UserID = o.userID
	c.Timeout = o.timeout

	return c
}

func newRootCmd() *cobra.Command {
	o := &options{now: time.Now}

	root := &cobra.Command{
		Use:          "notesctl",
		Short:        "Read and add notes on real-estate deals",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&o.addr, "addr", "http://localhost:3333", "dealnotes server address")
	root.PersistentFlags().StringVar(&o.userID, "user", "", "author id sent as X-User-ID")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(newPingCmd(o), newNotesCmd(o), newDealsCmd(o))

	return root
}

func newPingCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.client().Ping(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)

			return nil
		},
	}
}

func newNotesCmd(o *options) *cobra.Command {
	notes := &cobra.Command{
		Use:   "notes",
		Short: "Deal notes",
	}

	list := &cobra.Command{
		Use:   "list <deal-id>",
		Short: "List the notes of a deal, pinned first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o.client().ListDealNotes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printNotes(cmd.OutOrStdout(), res, o.now())
		},
	}

	var pin bool
	add := &cobra.Command{
		Use:   "add <deal-id> <content>",
		Short: "Add a note to a deal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := &model.CreateDealNoteInput{Content: args[1], IsPinned: &pin}
			if err := in.Validate(); err != nil {
				return err
			}
			n, err := o.client().CreateDealNote(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", n.ID, n.DealID)

			return nil
		},
	}
	add.Flags().BoolVar(&pin, "pin", false, "pin the note")

	notes.AddCommand(list, add)

	return notes
}

func newDealsCmd(o *options) *cobra.Command {
	deals := &cobra.Command{
		Use:   "deals",
		Short: "Deals",
	}

	deals.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List deals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := o.client().ListDeals(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS")
			for _, d := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.TransactionType, d.Status)
			}

			return tw.Flush()
		},
	})

	return deals
}

func printNotes(w io.Writer, res *model.ListDealNotesResult, now time.Time) error {
	if len(res.Notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes yet")
		return err
	}

	unit := "notes"
	if res.TotalCount == 1 {
		unit = "note"
	}
	fmt.Fprintf(w, "%d %s\n", res.TotalCount, unit)

	for _, n := range model.SortForDisplay(res.Notes) {
		pin := " "
		if n.IsPinned {
			pin = "*"
		}
		fmt.Fprintf(w, "%s %s\n  %s • %s\n", pin, n.Content, n.CreatedByName, model.FormatRelative(n.CreatedAt, now))
	}

	return nil
}
