package views

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covyhq/covy/internal/client/export"
	"github.com/covyhq/covy/internal/client/models"
)

var jobForm = GenerateForm{
	JobTitle:       "Engineer",
	CompanyName:    "Analytical Engines Ltd",
	JobDescription: "Build difference engines",
}

type stubExporter struct {
	location string
	err      error
	got      *models.CoverLetter
}

func (s *stubExporter) Export(_ context.Context, letter models.CoverLetter) (string, error) {
	s.got = &letter
	return s.location, s.err
}

func TestGenerate_RequiresSavedProfile(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{UserID: 1, Summary: "draft profile"})

	err := h.letters.Generate(context.Background(), jobForm)

	require.ErrorIs(t, err, ErrProfileRequired)
	assert.Empty(t, h.api.Calls())
	assert.Equal(t, []alert{{AlertError, msgProfileFirst}}, h.alerts.All())
	assert.Equal(t, SectionProfile, h.screen.lastSection())
}

func TestGenerate_RequiresLogin(t *testing.T) {
	h := newHarness(t, true)

	require.ErrorIs(t, h.letters.Generate(context.Background(), jobForm), ErrNotAuthenticated)
	assert.Empty(t, h.api.Calls())
	assert.Len(t, h.alerts.All(), 1)
}

func TestGenerate_RequiredFields(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})

	err := h.letters.Generate(context.Background(), GenerateForm{JobTitle: "Engineer", CompanyName: "  "})

	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, h.api.Calls())
	assert.Equal(t, []alert{{AlertError, msgRequiredFields}}, h.alerts.All())
}

func TestGenerate_Success(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})
	h.api.letter = &models.CoverLetter{ID: 42, UserID: 1, Content: "Dear hiring manager"}

	require.NoError(t, h.letters.Generate(context.Background(), jobForm))

	assert.Equal(t, models.GenerateRequest{
		UserID:         1,
		JobTitle:       "Engineer",
		CompanyName:    "Analytical Engines Ltd",
		JobDescription: "Build difference engines",
		Title:          "Cover Letter for Engineer at Analytical Engines Ltd",
	}, h.api.lastGenerate)
	assert.Equal(t, int64(42), h.store.CurrentCoverLetter().ID)
	require.NotNil(t, h.screen.letter)
	assert.Equal(t, "Dear hiring manager", h.screen.letter.Content)
	assert.Equal(t, []alert{{AlertSuccess, msgGenerated}}, h.alerts.All())
	assert.Equal(t, models.LoadingState{}, h.store.LoadingState())
}

func TestGenerate_Failure(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})
	h.api.letterErr = errors.New("upstream model timeout")

	require.Error(t, h.letters.Generate(context.Background(), jobForm))
	assert.Nil(t, h.store.CurrentCoverLetter())
	assert.Equal(t, []alert{{AlertError, msgGenerateError}}, h.alerts.All())
	assert.Equal(t, models.LoadingState{}, h.store.LoadingState())
}

func TestGenerate_RejectsDuplicateSubmission(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})
	h.api.letter = &models.CoverLetter{ID: 42}
	h.api.block = make(chan struct{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.letters.Generate(ctx, jobForm) }()

	require.Eventually(t, func() bool {
		return len(h.api.Calls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, h.store.LoadingState().IsLoading)

	err := h.letters.Generate(ctx, jobForm)
	require.ErrorIs(t, err, ErrOperationPending)
	assert.Equal(t, []alert{{AlertInfo, msgPending}}, h.alerts.All())

	close(h.api.block)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"GenerateCoverLetter"}, h.api.Calls())
	assert.False(t, h.store.LoadingState().IsLoading)
}

func TestLoadHistory(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.list = &models.CoverLetterList{Total: 2, Items: []models.CoverLetter{{ID: 1}, {ID: 2}}}

	require.NoError(t, h.letters.LoadHistory(context.Background()))

	assert.Len(t, h.store.History(), 2)
	assert.Len(t, h.screen.history, 2)
	assert.Equal(t, models.LoadingState{}, h.store.LoadingState())
}

func TestLoadHistory_EmptyListIsNotNil(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.list = &models.CoverLetterList{}

	require.NoError(t, h.letters.LoadHistory(context.Background()))
	assert.NotNil(t, h.store.History())
	assert.Empty(t, h.store.History())
}

func TestLoadHistory_SkippedWithoutValidUser(t *testing.T) {
	h := newHarness(t, true)

	require.NoError(t, h.letters.LoadHistory(context.Background()))
	assert.Empty(t, h.api.Calls())
}

func TestLoadHistory_Failure(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.listLErr = errors.New("boom")

	require.Error(t, h.letters.LoadHistory(context.Background()))
	assert.Equal(t, []alert{{AlertError, msgHistoryError}}, h.alerts.All())
}

func TestHistorySection_LoadsOnEntry(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.list = &models.CoverLetterList{Total: 1, Items: []models.CoverLetter{{ID: 5}}}

	require.True(t, h.nav.ShowSection(context.Background(), SectionHistory))

	assert.Equal(t, []string{"ListUserCoverLetters"}, h.api.Calls())
	assert.Equal(t, 1, h.screen.historyN)
}

func TestViewLetter(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})
	h.api.letter = &models.CoverLetter{ID: 7, JobTitle: "Engineer", CompanyName: "ACME", JobDescription: "Rockets", Content: "Hello"}

	require.NoError(t, h.letters.ViewLetter(context.Background(), 7))

	assert.Equal(t, &GenerateForm{JobTitle: "Engineer", CompanyName: "ACME", JobDescription: "Rockets"}, h.screen.generate)
	assert.Equal(t, SectionGenerate, h.screen.lastSection())
	assert.Equal(t, int64(7), h.store.CurrentCoverLetter().ID)
	assert.Empty(t, h.alerts.All())
}

func TestCurrentLetterPrefillsGenerateForm(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(&models.Profile{ID: 9, UserID: 1})

	h.store.SetCurrentCoverLetter(context.Background(), &models.CoverLetter{ID: 3, JobTitle: "Pilot", CompanyName: "Aero"})

	assert.Equal(t, &GenerateForm{JobTitle: "Pilot", CompanyName: "Aero"}, h.screen.generate)
	assert.Empty(t, h.api.Calls())
}

func TestViewLetter_Failure(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.letterErr = errors.New("not found")

	require.Error(t, h.letters.ViewLetter(context.Background(), 7))
	assert.Equal(t, []alert{{AlertError, msgLoadLetterError}}, h.alerts.All())
	assert.Nil(t, h.screen.generate)
}

func TestDeleteLetter(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.loggedIn(nil)
	h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7})
	h.api.list = &models.CoverLetterList{}

	require.NoError(t, h.letters.DeleteLetter(ctx, 7))

	assert.Equal(t, []string{"DeleteCoverLetter", "ListUserCoverLetters"}, h.api.Calls())
	assert.Nil(t, h.store.CurrentCoverLetter())
	assert.Equal(t, []alert{{AlertSuccess, msgDeleted}}, h.alerts.All())
}

func TestDeleteLetter_KeepsOtherCurrentLetter(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.loggedIn(nil)
	h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 8})
	h.api.list = &models.CoverLetterList{}

	require.NoError(t, h.letters.DeleteLetter(ctx, 7))
	assert.Equal(t, int64(8), h.store.CurrentCoverLetter().ID)
}

func TestDeleteLetter_Declined(t *testing.T) {
	h := newHarness(t, false)
	h.loggedIn(nil)

	require.ErrorIs(t, h.letters.DeleteLetter(context.Background(), 7), ErrCancelled)
	assert.Empty(t, h.api.Calls())
	assert.Empty(t, h.alerts.All())
}

func TestDeleteLetter_Failure(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.api.deleteErr = errors.New("boom")

	require.Error(t, h.letters.DeleteLetter(context.Background(), 7))
	assert.Equal(t, []string{"DeleteCoverLetter"}, h.api.Calls())
	assert.Equal(t, []alert{{AlertError, msgDeleteError}}, h.alerts.All())
	assert.Equal(t, models.LoadingState{}, h.store.LoadingState())
}

func TestUpdateLetter(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.loggedIn(nil)
	h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7, Content: "old"})
	h.api.letter = &models.CoverLetter{ID: 7, Content: "new text"}

	require.NoError(t, h.letters.UpdateLetter(ctx, "  new text  "))

	require.NotNil(t, h.api.lastUpdate.Content)
	assert.Equal(t, "new text", *h.api.lastUpdate.Content)
	assert.Nil(t, h.api.lastUpdate.Title)
	assert.Equal(t, "new text", h.store.CurrentCoverLetter().Content)
	assert.Equal(t, []alert{{AlertSuccess, msgUpdated}}, h.alerts.All())
}

func TestUpdateLetter_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		current *models.CoverLetter
		content string
		wantErr error
	}{
		{"no letter", nil, "text", ErrNoCoverLetter},
		{"empty", &models.CoverLetter{ID: 7}, "   ", ErrValidation},
		{"too long", &models.CoverLetter{ID: 7}, strings.Repeat("é", models.MaxCoverLetterContent+1), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			ctx := context.Background()
			h.loggedIn(nil)
			h.store.SetCurrentCoverLetter(ctx, tt.current)

			require.ErrorIs(t, h.letters.UpdateLetter(ctx, tt.content), tt.wantErr)
			assert.Empty(t, h.api.Calls())
			assert.Len(t, h.alerts.All(), 1)
		})
	}
}

func TestUpdateLetter_AcceptsMaximumLength(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.loggedIn(nil)
	h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7})
	h.api.letter = &models.CoverLetter{ID: 7}

	require.NoError(t, h.letters.UpdateLetter(ctx, strings.Repeat("é", models.MaxCoverLetterContent)))
}

func TestExportLetter(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.loggedIn(nil)
	h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7, Content: "Hello"})
	exp := &stubExporter{location: "/tmp/letters/Cover_Letter.txt"}
	h.letters.exporter = exp

	loc, err := h.letters.ExportLetter(ctx)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/letters/Cover_Letter.txt", loc)
	assert.Equal(t, "Hello", exp.got.Content)
	assert.Equal(t, []alert{{AlertSuccess, "Cover letter exported to /tmp/letters/Cover_Letter.txt"}}, h.alerts.All())
}

func TestExportLetter_Failures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newHarness(t, true)
		ctx := context.Background()
		h.loggedIn(nil)
		h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7, Content: "Hello"})

		_, err := h.letters.ExportLetter(ctx)
		require.ErrorIs(t, err, export.ErrUnknownTarget)
		assert.Equal(t, []alert{{AlertError, msgNoExportTargetSet}}, h.alerts.All())
	})

	t.Run("exporter error", func(t *testing.T) {
		h := newHarness(t, true)
		ctx := context.Background()
		h.loggedIn(nil)
		h.store.SetCurrentCoverLetter(ctx, &models.CoverLetter{ID: 7})
		h.letters.exporter = &stubExporter{err: export.ErrEmptyLetter}

		_, err := h.letters.ExportLetter(ctx)
		require.ErrorIs(t, err, export.ErrEmptyLetter)
		assert.Equal(t, []alert{{AlertError, msgExportError}}, h.alerts.All())
	})

	t.Run("no letter", func(t *testing.T) {
		h := newHarness(t, true)
		h.loggedIn(nil)
		h.letters.exporter = &stubExporter{}

		_, err := h.letters.ExportLetter(context.Background())
		require.ErrorIs(t, err, ErrNoCoverLetter)
	})
}

func TestHistoryNotShownAfterLogout(t *testing.T) {
	h := newHarness(t, true)
	h.loggedIn(nil)
	h.store.SetCoverLetterHistory(context.Background(), []models.CoverLetter{{ID: 1}})
	shown := h.screen.historyN

	require.NoError(t, h.auth.Logout(context.Background()))
	assert.Equal(t, shown, h.screen.historyN)
}
