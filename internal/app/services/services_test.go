package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/progress"
	"github.com/yigit/unitrack/internal/app/repositories"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/auth"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
	"github.com/yigit/unitrack/internal/pkg/upload"
	"github.com/yigit/unitrack/internal/seed"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, which starts a stats worker from init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newStore(t *testing.T) *tracker.Store {
	t.Helper()
	store := tracker.New(repositories.NewSlotRepository(blobstore.NewMemory()))
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Load(context.Background()))
	return store
}

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

type fakeAdvisor struct {
	rows  []models.PartialCourse
	areas []models.Area
	err   error
	mime  string
}

func (f *fakeAdvisor) Configured() bool { return true }

func (f *fakeAdvisor) Advice(context.Context, []models.Course, []models.Area) (string, error) {
	return "keep going", f.err
}

func (f *fakeAdvisor) ReportSummary(context.Context, []models.Course, []models.Area) (string, error) {
	return "steady progress", f.err
}

func (f *fakeAdvisor) ParseTranscript(_ context.Context, _ []byte, mimeType string) ([]models.PartialCourse, error) {
	f.mime = mimeType
	return f.rows, f.err
}

func (f *fakeAdvisor) InferCurriculum(_ context.Context, _ []byte, mimeType string) ([]models.Area, error) {
	f.mime = mimeType
	return f.areas, f.err
}

func newAdvisorService(t *testing.T, fake *fakeAdvisor) *AdvisorService {
	lgr := zerolog.Nop()
	return NewAdvisorService(newStore(t), fake, upload.Transcripts(lgr), upload.Documents(lgr), lgr)
}

func TestResolveArea(t *testing.T) {
	areas := seed.Areas()
	cases := map[string]string{
		seed.AreaResearch:   seed.AreaResearch,
		"c":                 seed.AreaSpecialisation,
		"D: something else": seed.AreaTransfer,
		"master thesis":     seed.AreaThesis,
		"Thesis module":     seed.AreaThesis,
	}
	for hint, want := range cases {
		got, ok := ResolveArea(hint, areas)
		assert.True(t, ok, hint)
		assert.Equal(t, want, got, hint)
	}

	_, ok := ResolveArea("Z", areas)
	assert.False(t, ok)
	_, ok = ResolveArea("  ", areas)
	assert.False(t, ok)
}

func TestPreviewTranscriptResolvesAreas(t *testing.T) {
	name := "Statistics"
	hint, unknown := "B", "Elsewhere"
	fake := &fakeAdvisor{rows: []models.PartialCourse{
		{Name: &name, Area: &hint},
		{Name: &name, Area: &unknown},
		{Name: &name},
	}}
	svc := newAdvisorService(t, fake)

	file, rows, err := svc.PreviewTranscript(context.Background(), fileHeader(t, "transcript.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "transcript.png", file.Name)
	assert.Equal(t, "image/png", fake.mime)
	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].Area)
	assert.Equal(t, seed.AreaResearch, *rows[0].Area)
	assert.Nil(t, rows[1].Area)
	assert.Nil(t, rows[2].Area)
}

func TestPreviewTranscriptRejectsText(t *testing.T) {
	svc := newAdvisorService(t, &fakeAdvisor{})
	_, _, err := svc.PreviewTranscript(context.Background(), fileHeader(t, "notes.txt", []byte("just some text")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFile)
}

func TestSuggestCurriculumPassesErrors(t *testing.T) {
	ext := apperrors.NewExternalError(apperrors.KindEmpty, nil)
	svc := newAdvisorService(t, &fakeAdvisor{err: ext})
	_, _, err := svc.SuggestCurriculum(context.Background(), fileHeader(t, "plan.png", pngHeader))
	assert.ErrorIs(t, err, apperrors.ErrEmptyResult)
}

func TestCourseServiceParseQuery(t *testing.T) {
	svc := NewCourseService(newStore(t), zerolog.Nop())

	q, err := svc.ParseQuery("ects", "desc", "2", seed.AreaFoundation)
	require.NoError(t, err)
	assert.Equal(t, progress.SortByECTS, q.Field)
	assert.Equal(t, progress.Desc, q.Order)
	require.NotNil(t, q.Semester)
	assert.Equal(t, 2, *q.Semester)

	_, err = svc.ParseQuery("color", "", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSortField)
	_, err = svc.ParseQuery("", "sideways", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSortOrder)
	_, err = svc.ParseQuery("", "", "first", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterArg)
}

func TestCourseServiceSetStatusRelaxed(t *testing.T) {
	svc := NewCourseService(newStore(t), zerolog.Nop())

	course, err := svc.SetStatus(context.Background(), "1", "in_progress")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, course.Status)

	_, err = svc.SetStatus(context.Background(), "1", "done")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestProfileServiceKeepsImages(t *testing.T) {
	store := newStore(t)
	svc := NewProfileService(store, upload.NewReader(upload.MaxSize, upload.ImageTypes, zerolog.Nop()), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.SetImage(ctx, ImagePicture, fileHeader(t, "me.png", pngHeader))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, models.UserProfile{FullName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, updated.ProfilePicture)
	assert.Equal(t, "AL", updated.Initials())

	cleared, err := svc.ClearImage(ctx, ImagePicture)
	require.NoError(t, err)
	assert.Empty(t, cleared.ProfilePicture)

	_, err = svc.SetViewMode(ctx, "gallery")
	assert.ErrorIs(t, err, apperrors.ErrInvalidViewMode)
	mode, err := svc.SetViewMode(ctx, string(models.ViewTimetable))
	require.NoError(t, err)
	assert.Equal(t, models.ViewTimetable, svc.ViewMode())
	assert.Equal(t, models.ViewTimetable, mode)
}

func TestProgressServiceReport(t *testing.T) {
	svc := NewProgressService(newStore(t), progress.DefaultPolicy())

	report, err := svc.Report("area")
	require.NoError(t, err)
	assert.Equal(t, progress.ReportByArea, report.Order)
	assert.Equal(t, 15, report.TotalECTS)

	_, err = svc.Report("alphabetical")
	assert.ErrorIs(t, err, apperrors.ErrInvalidReportOrder)

	overview := svc.Overview()
	assert.Equal(t, 15, overview.TotalEarned)
	assert.Equal(t, 105, overview.Remaining)
}

func TestAuthServiceIssueToken(t *testing.T) {
	hash, err := auth.HashPassphrase("open sesame")
	require.NoError(t, err)
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour})
	svc := NewAuthService(jwtSvc, hash, zerolog.Nop())

	token, err := svc.IssueToken("open sesame")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	_, err = jwtSvc.ValidateToken(token.AccessToken)
	assert.NoError(t, err)

	_, err = svc.IssueToken("wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	disabled := NewAuthService(nil, "", zerolog.Nop())
	assert.False(t, disabled.Enabled())
	_, err = disabled.IssueToken("anything")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
