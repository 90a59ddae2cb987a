package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/exchange"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Export writes the persisted state as a JSON bundle or as CSV.
func Export(ctx context.Context, repo board.Repo, format string, w io.Writer, now time.Time) error {
	st, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return exchange.WriteJSON(w, exchange.NewBundle(st, now))
	case "csv":
		return exchange.WriteCSV(w, st.Tasks)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Import replaces the persisted tasks with those of an export bundle and
// returns how many were imported.
func Import(ctx context.Context, repo board.Repo, engine *board.Engine, r io.Reader) (int, error) {
	tasks, err := exchange.ParseImport(r)
	if err != nil {
		return 0, err
	}
	st, err := repo.Load(ctx)
	if err != nil {
		return 0, err
	}
	res, err := engine.Execute(st, "tasks.replace", map[string]any{"tasks": tasks})
	if err != nil {
		return 0, err
	}
	if err := repo.Save(ctx, res.State); err != nil {
		return 0, err
	}
	return res.Affected, nil
}
