package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/studiowebux/catalog/internal/version"
)

// CheckVersion prints whether a newer release is published
func (e *Env) CheckVersion(ctx context.Context, c *version.Checker, current string) error {
	status, err := c.Check(ctx, current)
	if err != nil {
		return err
	}
	return e.print(status, func(w io.Writer) error {
		if !status.Available {
			_, err := fmt.Fprintf(w, "catalog %s is up to date\n", status.Current)
			return err
		}
		_, err := fmt.Fprintf(w, "catalog %s is available (running %s): %s\n", status.Latest.Version, status.Current, status.Latest.URL)
		return err
	})
}
