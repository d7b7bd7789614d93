package model

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// RepositoryStatus is the <type> value reported by Nexus for a staging repository
type RepositoryStatus string

const (
	StatusOpen     RepositoryStatus = "open"
	StatusClosed   RepositoryStatus = "closed"
	StatusReleased RepositoryStatus = "released"
	StatusUnknown  RepositoryStatus = "unknown"
)

// ParseStatus maps a raw status token to a RepositoryStatus
func ParseStatus(token string) RepositoryStatus {
	switch RepositoryStatus(token) {
	case StatusOpen, StatusClosed, StatusReleased:
		return RepositoryStatus(token)
	default:
		return StatusUnknown
	}
}

// StagingState is the local workflow state of one staging repository
type StagingState string

const (
	StateUninitialized StagingState = "uninitialized"
	StateCreated       StagingState = "created"
	StateSigned        StagingState = "signed"
	StateDeployed      StagingState = "deployed"
	StateClosing       StagingState = "closing"
	StateClosed        StagingState = "closed"
	StateCloseFailed   StagingState = "close_failed"
	StatePromoting     StagingState = "promoting"
	StateReleased      StagingState = "released"
	StatePromoteFailed StagingState = "promote_failed"
)

// Signing may happen before or after creation, and a repository recovered
// from a previous run starts in Closed.
var stagingTransitions = map[StagingState][]StagingState{
	StateUninitialized: {StateCreated, StateSigned, StateClosed},
	StateSigned:        {StateCreated, StateDeployed},
	StateCreated:       {StateSigned, StateDeployed},
	StateDeployed:      {StateClosing},
	StateClosing:       {StateClosed, StateCloseFailed},
	StateClosed:        {StatePromoting},
	StatePromoting:     {StateReleased, StatePromoteFailed},
}

// StagingRepository is one remote staging repository driven by this process.
// Nexus is authoritative for Status; State tracks local progress.
type StagingRepository struct {
	ID     string
	Status RepositoryStatus
	State  StagingState

	signed bool
}

// NewStagingRepository returns a repository in the uninitialized state
func NewStagingRepository() *StagingRepository {
	return &StagingRepository{
		Status: StatusUnknown,
		State:  StateUninitialized,
	}
}

// RecoverStagingRepository returns an already closed repository, e.g. one
// read back from the marker file for promotion.
func RecoverStagingRepository(id string) *StagingRepository {
	return &StagingRepository{
		ID:     id,
		Status: StatusClosed,
		State:  StateClosed,
	}
}

// CanAdvance reports, as an ErrTransition error, whether the repository may
// move to next
func (r *StagingRepository) CanAdvance(next StagingState) error {
	if !slices.Contains(stagingTransitions[r.State], next) {
		return goerr.Wrap(ErrTransition, "staging state cannot move",
			goerr.V("from", r.State),
			goerr.V("to", next),
			goerr.V("repository_id", r.ID),
		)
	}

	if next == StateDeployed && (!r.signed || r.ID == "") {
		return goerr.Wrap(ErrTransition, "repository must be created and signed before deploy",
			goerr.V("repository_id", r.ID),
			goerr.V("signed", r.signed),
		)
	}

	return nil
}

// Advance moves the repository to next or fails with ErrTransition
func (r *StagingRepository) Advance(next StagingState) error {
	if err := r.CanAdvance(next); err != nil {
		return err
	}
	if next == StateSigned {
		r.signed = true
	}
	r.State = next
	return nil
}

// RequireID fails with ErrConfiguration when the repository id is unknown
func (r *StagingRepository) RequireID() error {
	if r == nil || r.ID == "" {
		return goerr.Wrap(ErrConfiguration, "staging repository id is not known")
	}
	return nil
}
