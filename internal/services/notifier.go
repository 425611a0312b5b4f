package services

// Notifier receives collection-level invalidations after successful
// mutations. The live hub implements it; tests usually pass NopNotifier.
type Notifier interface {
	Invalidate(collection string)
}

// Collection names shared with the live subscription layer.
const (
	CollectionUsers    = "users"
	CollectionProjects = "projects"
	CollectionTasks    = "tasks"
	CollectionNotes    = "notes"
	CollectionTargets  = "targets"
	CollectionReviews  = "reviews"
)

// NopNotifier discards invalidations.
type NopNotifier struct{}

func (NopNotifier) Invalidate(string) {}
