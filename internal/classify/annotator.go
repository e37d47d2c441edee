package classify

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/thread-miners/scrape/internal/store"
)

// Annotator walks stored rows that have no label yet and writes verdicts
// back. It runs out-of-band from scraping; a failed row is logged and
// skipped, never fatal for the pass.
type Annotator struct {
	store      *store.Store
	classifier Classifier
}

// NewAnnotator wires an annotation pass.
func NewAnnotator(st *store.Store, cls Classifier) *Annotator {
	return &Annotator{store: st, classifier: cls}
}

// Run labels every unlabeled post and reply. It returns how many rows were
// annotated.
func (a *Annotator) Run(ctx context.Context) (int, error) {
	rows, err := a.store.UnlabeledTexts(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int("rows", len(rows)).Msg("Annotation pass starting")

	annotated := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return annotated, ctx.Err()
		}

		pred, err := a.classifier.Classify(ctx, row.Text)
		if err != nil {
			log.Warn().Str("kind", string(row.Kind)).Int64("id", row.ID).Err(err).Msg("Classification failed, skipping row")
			continue
		}
		if err := a.store.SetLabel(ctx, row.Kind, row.ID, pred.Label, pred.Confidence); err != nil {
			log.Warn().Str("kind", string(row.Kind)).Int64("id", row.ID).Err(err).Msg("Label write failed, skipping row")
			continue
		}
		annotated++
	}

	log.Info().Int("annotated", annotated).Int("total", len(rows)).Msg("Annotation pass completed")
	return annotated, nil
}
