package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/warp/reserve-engine/reserve"
)

// =============================================================================
// SERVICE - Studies + projection engine
// =============================================================================

// maxParallelProjections bounds ProjectMany.
const maxParallelProjections = 8

type Service struct {
	store  Store
	engine reserve.Engine
	log    *logrus.Logger
	now    func() time.Time
}

func NewService(store Store, engine reserve.Engine, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:  store,
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// Projection pairs a study with the result of projecting it.
type Projection struct {
	Study  Study
	Result *reserve.ProjectionResult
}

// ProjectOptions override the stored financial inputs for one run.
// Zero values keep the study's own settings.
type ProjectOptions struct {
	HorizonYears      int
	StartYear         int
	CriticalThreshold int
}

// =============================================================================
// STUDIES
// =============================================================================

// CreateStudy validates and stores a new study. An empty ID (study or
// component) is replaced by a generated one. An existing ID is a conflict.
func (s *Service) CreateStudy(ctx context.Context, st Study) (Study, error) {
	st, err := s.PrepareStudy(st)
	if err != nil {
		s.log.WithFields(logrus.Fields{"study_id": st.ID, "error": err}).Warn("rejected study")
		return Study{}, err
	}
	if _, err := s.store.GetStudy(ctx, st.ID); err == nil {
		return Study{}, fmt.Errorf("%w: %s", ErrDuplicateStudy, st.ID)
	} else if !errors.Is(err, ErrStudyNotFound) {
		return Study{}, fmt.Errorf("check study %s: %w", st.ID, err)
	}

	now := s.now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	if err := s.store.SaveStudy(ctx, st); err != nil {
		return Study{}, fmt.Errorf("save study %s: %w", st.ID, err)
	}
	s.log.WithFields(logrus.Fields{
		"study_id":   st.ID,
		"components": len(st.Components),
		"policies":   len(st.Policies),
	}).Info("study created")
	return st, nil
}

// PrepareStudy fills in missing study and component IDs on a copy of st and
// validates the result. Nothing is stored.
func (s *Service) PrepareStudy(st Study) (Study, error) {
	st = st.Clone()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	for i := range st.Components {
		if st.Components[i].ID == "" {
			st.Components[i].ID = uuid.NewString()
		}
	}
	if err := Validate(st); err != nil {
		return st, err
	}
	return st, nil
}

func (s *Service) GetStudy(ctx context.Context, id string) (*Study, error) {
	return s.store.GetStudy(ctx, id)
}

func (s *Service) ListStudies(ctx context.Context) ([]Summary, error) {
	return s.store.ListStudies(ctx)
}

func (s *Service) DeleteStudy(ctx context.Context, id string) error {
	return s.store.DeleteStudy(ctx, id)
}

// =============================================================================
// INVENTORY
// =============================================================================

// AddComponent appends a component to a study's inventory.
func (s *Service) AddComponent(ctx context.Context, studyID string, c reserve.Component) (reserve.Component, error) {
	st, err := s.store.GetStudy(ctx, studyID)
	if err != nil {
		return reserve.Component{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if _, exists := st.Component(c.ID); exists {
		return reserve.Component{}, fmt.Errorf("%w: %s", ErrDuplicateComponent, c.ID)
	}
	if err := reserve.ValidateComponent(c); err != nil {
		return reserve.Component{}, err
	}
	if err := s.store.SaveComponent(ctx, studyID, c); err != nil {
		return reserve.Component{}, fmt.Errorf("save component %s: %w", c.ID, err)
	}
	s.log.WithFields(logrus.Fields{"study_id": studyID, "component_id": c.ID}).Info("component added")
	return c, nil
}

func (s *Service) RemoveComponent(ctx context.Context, studyID, componentID string) error {
	if err := s.store.DeleteComponent(ctx, studyID, componentID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"study_id": studyID, "component_id": componentID}).Info("component removed")
	return nil
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// Project loads a study and runs the engine over its current inventory.
func (s *Service) Project(ctx context.Context, id string, opts ProjectOptions) (*Projection, error) {
	st, err := s.store.GetStudy(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ProjectStudy(*st, opts)
}

// ProjectStudy runs the engine over a study that need not be stored.
func (s *Service) ProjectStudy(st Study, opts ProjectOptions) (*Projection, error) {
	in := st.Input()
	if opts.HorizonYears != 0 {
		in.HorizonYears = opts.HorizonYears
	}
	if opts.StartYear != 0 {
		in.StartYear = opts.StartYear
	}
	in.CriticalThreshold = opts.CriticalThreshold

	started := time.Now()
	result, err := s.engine.Project(in)
	if err != nil {
		s.log.WithFields(logrus.Fields{"study_id": st.ID, "error": err}).Warn("projection rejected")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"study_id":   st.ID,
		"components": len(in.Components),
		"policies":   len(in.Policies),
		"horizon":    in.HorizonYears,
		"duration":   time.Since(started),
	}).Debug("projection complete")

	return &Projection{Study: st, Result: result}, nil
}

// ProjectMany projects several stored studies in parallel. Results are in
// the order of ids. The first failure cancels the remaining runs.
func (s *Service) ProjectMany(ctx context.Context, ids []string, opts ProjectOptions) ([]Projection, error) {
	out := make([]Projection, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelProjections)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := s.Project(ctx, id, opts)
			if err != nil {
				return fmt.Errorf("project study %s: %w", id, err)
			}
			out[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectAll projects every stored study.
func (s *Service) ProjectAll(ctx context.Context, opts ProjectOptions) ([]Projection, error) {
	summaries, err := s.store.ListStudies(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(summaries))
	for i, sum := range summaries {
		ids[i] = sum.ID
	}
	return s.ProjectMany(ctx, ids, opts)
}

// Critical returns the study's critical components without projecting.
func (s *Service) Critical(ctx context.Context, id string, threshold int) ([]reserve.CriticalComponent, error) {
	st, err := s.store.GetStudy(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Critical(st.Components, threshold)
}

// Categories returns the study's replacement cost per category.
func (s *Service) Categories(ctx context.Context, id string) ([]reserve.CategoryTotal, error) {
	st, err := s.store.GetStudy(ctx, id)
	if err != nil {
		return nil, err
	}
	return reserve.CategoryTotals(st.Components), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks a study before it is stored: the engine's own input rules,
// unique component IDs and a selected policy that exists.
func Validate(st Study) error {
	if err := reserve.Validate(st.Input()); err != nil {
		return err
	}
	seen := make(map[string]bool, len(st.Components))
	for _, c := range st.Components {
		if seen[c.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.ID)
		}
		seen[c.ID] = true
	}
	if st.SelectedPolicy != "" {
		if _, ok := st.Policy(st.SelectedPolicy); !ok {
			return &reserve.InvalidInputError{
				Field:  "selected_policy",
				Policy: st.SelectedPolicy,
				Reason: "is not one of the study's policies",
			}
		}
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	return IsClientError(err) || errors.Is(err, ErrDuplicateComponent)
}
