package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// Version is owned by the repository: it is bumped on every successful save.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// DocumentRoot is the aggregate root shared by every procurement document.
// It adds audit stamps and the soft-delete lifecycle to BaseAggregateRoot.
type DocumentRoot struct {
	BaseAggregateRoot
	CreatedBy string
	UpdatedBy string
	Lifecycle Lifecycle
}

// NewDocumentRoot creates a new active document root stamped with its creator
func NewDocumentRoot(createdBy string) DocumentRoot {
	return DocumentRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
		UpdatedBy:         createdBy,
		Lifecycle:         ActiveLifecycle(),
	}
}

// Touch stamps the document as updated by the given user
func (d *DocumentRoot) Touch(userID string) {
	d.UpdatedBy = userID
	d.UpdatedAt = now()
}

// IsRemoved reports whether the document has been soft deleted
func (d *DocumentRoot) IsRemoved() bool {
	return d.Lifecycle.IsRemoved()
}

// MarkRemoved moves the document into the Removed lifecycle state
func (d *DocumentRoot) MarkRemoved(userID string) error {
	if d.Lifecycle.IsRemoved() {
		return NewGuardError("ALREADY_REMOVED", "Document has already been deleted")
	}
	d.Lifecycle = RemovedLifecycle(now(), userID)
	d.Touch(userID)
	return nil
}

// AuditStamps returns the audit stamp projection used by Format views
func (d *DocumentRoot) AuditStamps() AuditStamps {
	return AuditStamps{
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedBy: d.UpdatedBy,
		UpdatedAt: d.UpdatedAt,
	}
}
