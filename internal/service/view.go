package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/ports"
)

// UnsolvedPuzzles projects every id in the unsolved index. An id missing from
// the store means the index drifted; that is reported as ErrCorruptIndex.
func (c *Crossword) UnsolvedPuzzles(ctx context.Context) ([]entity.PuzzleView, error) {
	var views []entity.PuzzleView
	err := c.store.View(ctx, func(tx ports.Tx) error {
		ids, err := tx.Unsolved().List()
		if err != nil {
			return err
		}
		views = make([]entity.PuzzleView, 0, len(ids))
		for _, id := range ids {
			p, found, err := tx.Puzzles().Get(id)
			if err != nil {
				return err
			}
			if !found {
				c.log.Error("unsolved index references missing puzzle", "key", fmt.Sprintf("%x", []byte(id)))
				return fmt.Errorf("%w: %x", entity.ErrCorruptIndex, []byte(id))
			}
			v, err := entity.NewPuzzleView(id, p)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].SolutionPublicKey < views[j].SolutionPublicKey
	})
	c.rec.SetUnsolved(len(views))
	return views, nil
}
