package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/studiowebux/catalog/internal/types"
)

// ListHistory prints the recorded writes of the active profile, newest first
func (e *Env) ListHistory(limit int) error {
	profile := e.Session.GetActiveProfile().Name
	entries, err := e.History.Load(profile, limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}

	return e.print(entries, func(w io.Writer) error {
		if !e.Session.IsHistoryEnabled() {
			fmt.Fprintln(w, "History recording is disabled")
		}
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No history")
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, h := range entries {
			status := strconv.Itoa(h.Status)
			if h.Error != "" {
				status = h.Error
			}
			rows = append(rows, []string{
				h.Timestamp.Local().Format(time.DateTime),
				h.RequestID,
				h.Method,
				h.Path,
				status,
				fmt.Sprintf("%dms", h.Duration),
			})
		}
		return renderTable(w, []string{"TIME", "REQUEST", "METHOD", "PATH", "STATUS", "DURATION"}, rows)
	})
}

// HistoryShow prints one entry with its body
func (e *Env) HistoryShow(requestID string) error {
	entry, err := e.History.Get(requestID)
	if err != nil {
		return err
	}
	return e.print(entry, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s -> %d (%dms)\n", entry.Method, entry.Path, entry.Status, entry.Duration)
		fmt.Fprintf(w, "Request: %s\n", entry.RequestID)
		fmt.Fprintf(w, "Profile: %s\n", entry.ProfileName)
		fmt.Fprintf(w, "Time:    %s\n", entry.Timestamp.Local().Format(time.RFC3339))
		if entry.Error != "" {
			fmt.Fprintf(w, "Error:   %s\n", entry.Error)
		}
		if entry.Body != "" {
			fmt.Fprintf(w, "\n%s\n", entry.Body)
		}
		return nil
	})
}

// HistoryClear deletes the entries of the active profile, or every entry
func (e *Env) HistoryClear(all bool) error {
	profile := e.Session.GetActiveProfile().Name
	if all {
		profile = ""
	}
	n, err := e.History.Clear(profile)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Deleted %d entries\n", n)
	return err
}

// SetHistoryEnabled turns recording on or off
func (e *Env) SetHistoryEnabled(enabled bool) error {
	if err := e.Session.SetHistoryEnabled(enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	_, err := fmt.Fprintf(e.Out, "History recording %s\n", state)
	return err
}
