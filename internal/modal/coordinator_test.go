package modal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/form"
	"inventory-catalog/internal/models"
)

type committer struct {
	creates int
	err     error
}

func (c *committer) CommitCreate(_ context.Context, p models.Product) (models.Product, error) {
	c.creates++
	if c.err != nil {
		return models.Product{}, c.err
	}
	p.ID = "p-1"
	return p, nil
}

func (c *committer) CommitUpdate(_ context.Context, p models.Product) (models.Product, error) {
	return p, c.err
}

func fill(t *testing.T, s *form.Session[models.Product]) {
	t.Helper()
	require.NoError(t, s.Set(form.FieldName, "Thermometer"))
	require.NoError(t, s.Set(form.FieldPrice, "12"))
	require.NoError(t, s.Set(form.FieldQuantity, "1"))
}

func TestOpenReplacesSession(t *testing.T) {
	c := New[models.Product](form.ProductSchema{}, &committer{})
	assert.Equal(t, Closed, c.State())

	first := c.Open(nil)
	second := c.Open(nil)
	assert.NotEqual(t, first, second)
	assert.Equal(t, State{Open: true, SessionID: second}, c.State())
	assert.Equal(t, second, c.Session().ID())
}

func TestBackButtonOnlyConsumedWhenOpen(t *testing.T) {
	c := New[models.Product](form.ProductSchema{}, &committer{})
	assert.False(t, c.HandleBack())

	c.Open(nil)
	assert.True(t, c.HandleBack())
	assert.Equal(t, Closed, c.State())
	assert.Nil(t, c.Session())
	assert.False(t, c.HandleBack())
}

func TestSubmitSuccessCloses(t *testing.T) {
	cm := &committer{}
	c := New[models.Product](form.ProductSchema{}, cm)
	var states []string
	c.OnChange(func(s State) { states = append(states, s.String()) })

	id := c.Open(nil)
	fill(t, c.Session())
	got, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.Equal(t, Closed, c.State())
	assert.Equal(t, []string{"open(" + id + ")", "closed"}, states)
}

func TestSubmitFailureKeepsModalOpen(t *testing.T) {
	cm := &committer{err: &apperrors.RemoteError{Status: 500}}
	c := New[models.Product](form.ProductSchema{}, cm)
	id := c.Open(nil)
	fill(t, c.Session())

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, State{Open: true, SessionID: id}, c.State())
	assert.Equal(t, form.StateFailed, c.Session().State())
	assert.Equal(t, "Thermometer", c.Session().Value(form.FieldName))
}

func TestValidationFailureMakesNoCommit(t *testing.T) {
	cm := &committer{}
	c := New[models.Product](form.ProductSchema{}, cm)
	c.Open(nil)

	_, err := c.Submit(context.Background())
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, cm.creates)
	assert.True(t, c.State().Open)
}

func TestSubmitWhenClosed(t *testing.T) {
	c := New[models.Product](form.ProductSchema{}, &committer{})
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
}

func TestEditSeedsSession(t *testing.T) {
	c := New[models.Product](form.ProductSchema{}, &committer{})
	seed := models.Product{ID: "p7", Name: "Scale"}
	c.Open(&seed)
	assert.True(t, c.Session().IsEdit())
	assert.Equal(t, "Scale", c.Session().Value(form.FieldName))

	assert.True(t, c.Dismiss(ReasonCancel))
	assert.False(t, c.Dismiss(ReasonCancel))
}
