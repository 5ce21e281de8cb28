package service

import (
	"context"
	"testing"

	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())
	ctx := context.Background()

	proj, err := svc.Create(ctx, testUserID, ProjectInput{
		Name:        "Album One",
		Description: "Songs for the first record",
	})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)

	got, err := svc.Get(ctx, testUserID, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Album One", got.Name)

	updated, err := svc.Update(ctx, testUserID, proj.ID, ProjectInput{Name: "Album Two"})
	require.NoError(t, err)
	assert.Equal(t, "Album Two", updated.Name)

	require.NoError(t, svc.Delete(ctx, testUserID, proj.ID))

	_, err = svc.Get(ctx, testUserID, proj.ID)
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeNotFound, domainErr.Code)
}

func TestProjectCreateRequiresName(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())

	_, err := svc.Create(context.Background(), testUserID, ProjectInput{Name: " "})
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeValidation, domainErr.Code)
}

func TestProjectAddPromptsSkipsDuplicates(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())
	ctx := context.Background()

	proj, err := svc.Create(ctx, testUserID, ProjectInput{Name: "Demos"})
	require.NoError(t, err)

	p1 := createTestPrompt(t, s, "first", 1)
	p2 := createTestPrompt(t, s, "second", 2)

	n, err := svc.AddPrompts(ctx, testUserID, proj.ID, []string{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-adding one plus a new one only links the new one.
	p3 := createTestPrompt(t, s, "third", 3)
	n, err = svc.AddPrompts(ctx, testUserID, proj.ID, []string{p1.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	prompts, err := svc.Prompts(ctx, testUserID, proj.ID)
	require.NoError(t, err)
	require.Len(t, prompts, 3)

	ids := make(map[string]bool, len(prompts))
	for _, p := range prompts {
		require.NotEmpty(t, p.Content)
		ids[p.ID] = true
	}
	assert.True(t, ids[p1.ID] && ids[p2.ID] && ids[p3.ID])
}

func TestProjectDeleteKeepsPrompts(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())
	ctx := context.Background()

	proj, err := svc.Create(ctx, testUserID, ProjectInput{Name: "Scratch"})
	require.NoError(t, err)

	p := createTestPrompt(t, s, "survives", 1)
	_, err = svc.AddPrompts(ctx, testUserID, proj.ID, []string{p.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUserID, proj.ID))

	_, err = s.GetPrompt(ctx, p.ID)
	assert.NoError(t, err)
}

func TestProjectRemovePrompt(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())
	ctx := context.Background()

	proj, err := svc.Create(ctx, testUserID, ProjectInput{Name: "Trim"})
	require.NoError(t, err)

	p := createTestPrompt(t, s, "linked", 1)
	_, err = svc.AddPrompts(ctx, testUserID, proj.ID, []string{p.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemovePrompt(ctx, testUserID, proj.ID, p.ID))

	err = svc.RemovePrompt(ctx, testUserID, proj.ID, p.ID)
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeNotFound, domainErr.Code)
}

func TestProjectScopedToUser(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewProjectService(s, testLogger())
	ctx := context.Background()

	proj, err := svc.Create(ctx, testUserID, ProjectInput{Name: "Private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", proj.ID)
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeNotFound, domainErr.Code)
}
