package study

import (
	"context"

	"github.com/warp/reserve-engine/reserve"
)

// =============================================================================
// STORE - Persistence interface for studies
// =============================================================================

// Store persists studies and their inventories.
//
// Implementations return ErrStudyNotFound (possibly wrapped) from GetStudy,
// DeleteStudy, SaveComponent and DeleteComponent when the study is missing,
// and ErrComponentNotFound from DeleteComponent when the component is.
//
// Returned studies are copies; mutating them does not affect the store.
type Store interface {
	// SaveStudy inserts or replaces a study, including its policies and
	// components.
	SaveStudy(ctx context.Context, s Study) error

	GetStudy(ctx context.Context, id string) (*Study, error)

	// ListStudies returns summaries ordered by property name.
	ListStudies(ctx context.Context) ([]Summary, error)

	DeleteStudy(ctx context.Context, id string) error

	// SaveComponent inserts or replaces one component. New components are
	// appended to the end of the inventory.
	SaveComponent(ctx context.Context, studyID string, c reserve.Component) error

	DeleteComponent(ctx context.Context, studyID, componentID string) error

	// Reset clears all data (for testing/demo).
	Reset(ctx context.Context) error
}
