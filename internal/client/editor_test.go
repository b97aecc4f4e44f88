package client

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() ActivityForm {
	return ActivityForm{
		Title:       "森林探险",
		Description: "认识植物",
		Location:    "奥森公园",
		Category:    "nature",
		AgeRange:    "4-8",
		Price:       decimal.NewFromInt(60),
	}
}

func TestActivityForm_Validate(t *testing.T) {
	assert.NoError(t, validForm().Validate())

	form := validForm()
	form.Title = "  "
	form.AgeRange = ""
	err := form.Validate()
	require.ErrorIs(t, err, ErrMissingFields)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"title", "age_range"}, missing.Fields)
}

func TestActivityEditor_RequiresSignIn(t *testing.T) {
	market := newFakeMarket("host")
	e := NewActivityEditor(fixedSession{}, market, "", nil)
	assert.Equal(t, RouteLogin, e.Guard())

	_, err := e.Submit(context.Background(), validForm(), nil)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, 0, market.count("CreateActivity"))
}

func TestActivityEditor_MissingFieldsNoRequest(t *testing.T) {
	market := newFakeMarket("host")
	rec := &recorder{}
	e := NewActivityEditor(signedIn("host", false), market, "", rec)

	form := validForm()
	form.Location = ""
	_, err := e.Submit(context.Background(), form, &Image{Filename: "a.png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, ReasonMissingFields, rec.last().Reason)
	assert.Equal(t, 0, market.count("UploadImage"))
	assert.Equal(t, 0, market.count("CreateActivity"))
}

func TestActivityEditor_CreateWithImage(t *testing.T) {
	market := newFakeMarket("host")
	e := NewActivityEditor(signedIn("host", false), market, "", nil)
	require.NoError(t, e.Load(context.Background()))

	saved, err := e.Submit(context.Background(), validForm(), &Image{Filename: "cover.jpg", Body: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/activity_images/cover.jpg", saved.ImageURL)
	assert.Equal(t, StatusDraft, saved.Status)
	assert.Equal(t, "host", saved.CreatorID)
}

func TestActivityEditor_EditNotFoundThenRetry(t *testing.T) {
	ctx := context.Background()
	market := newFakeMarket("host")
	market.activities = []Activity{{ID: "theirs", CreatorID: "other"}}
	e := NewActivityEditor(signedIn("host", false), market, "theirs", nil)

	err := e.Load(ctx)
	assert.True(t, IsNotFound(err))
	s := e.Snapshot()
	assert.True(t, s.NotFound)
	assert.False(t, s.Loading)

	// 归属修正后重试成功
	market.activities[0].CreatorID = "host"
	market.activities[0].Title = "旧标题"
	require.NoError(t, e.Retry(ctx))
	s = e.Snapshot()
	assert.False(t, s.NotFound)
	assert.Equal(t, "旧标题", s.Form.Title)
}

func TestActivityEditor_UpdateKeepsDraft(t *testing.T) {
	ctx := context.Background()
	market := newFakeMarket("host")
	market.activities = []Activity{{ID: "mine", CreatorID: "host", Status: "published"}}
	e := NewActivityEditor(signedIn("host", false), market, "mine", nil)
	require.NoError(t, e.Load(ctx))

	form := validForm()
	form.Title = "新标题"
	saved, err := e.Submit(ctx, form, nil)
	require.NoError(t, err)
	assert.Equal(t, "新标题", saved.Title)
	assert.Equal(t, StatusDraft, saved.Status)
	assert.Equal(t, 1, market.count("UpdateActivity"))
}
