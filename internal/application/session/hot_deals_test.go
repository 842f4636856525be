package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/localdeals/internal/domain/entities"
)

func activeDeal(id string) *entities.ActiveDeal {
	return &entities.ActiveDeal{Deal: entities.Deal{ID: id}}
}

func TestHotDeals_SetIDsAndMark(t *testing.T) {
	h := New()
	assert.False(t, h.Loaded())

	h.SetIDs([]string{"a", "b"})
	assert.True(t, h.Loaded())
	assert.Equal(t, []string{"a", "b"}, h.IDs())

	list := []*entities.ActiveDeal{activeDeal("b"), activeDeal("c")}
	h.MarkHot(list)
	assert.True(t, list[0].IsHot)
	assert.False(t, list[1].IsHot)
}

func TestHotDeals_AddRemove(t *testing.T) {
	h := New()
	h.SetIDs([]string{"a"})

	added := activeDeal("b")
	h.Add(added)
	h.Add(activeDeal("b"))
	assert.Equal(t, []string{"a", "b"}, h.IDs())
	assert.True(t, added.IsHot)

	h.Remove("a")
	assert.False(t, h.Contains("a"))
	assert.True(t, h.Contains("b"))

	h.Invalidate()
	assert.False(t, h.Loaded())
	assert.Empty(t, h.IDs())
}

func TestHotDeals_NilSafe(t *testing.T) {
	var h *HotDeals

	h.SetIDs([]string{"a"})
	h.Add(activeDeal("a"))
	h.Remove("a")
	h.Invalidate()
	h.MarkHot([]*entities.ActiveDeal{activeDeal("a")})

	assert.False(t, h.Loaded())
	assert.False(t, h.Contains("a"))
	assert.Empty(t, h.IDs())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	h := New()
	ctx := WithHotDeals(context.Background(), h)
	assert.Same(t, h, FromContext(ctx))
}
