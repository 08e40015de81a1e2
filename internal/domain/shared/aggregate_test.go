package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoot_Lifecycle(t *testing.T) {
	doc := NewDocumentRoot("creator")
	assert.False(t, doc.IsRemoved())
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "creator", doc.AuditStamps().CreatedBy)

	require.NoError(t, doc.MarkRemoved("remover"))
	assert.True(t, doc.IsRemoved())
	assert.Equal(t, "remover", doc.Lifecycle.RemovedBy)
	assert.NotNil(t, doc.Lifecycle.RemovedAt)
	assert.Equal(t, "remover", doc.UpdatedBy)

	err := doc.MarkRemoved("remover")
	assert.True(t, IsKind(err, KindGuard))
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := NewBaseAggregateRoot()
	ev := NewBaseDomainEvent("Something", "Thing", root.ID, "u")
	root.AddDomainEvent(&ev)
	assert.Len(t, root.GetDomainEvents(), 1)
	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}
