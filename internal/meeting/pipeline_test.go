package meeting

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/completion"
	"github.com/overmindlabs/overmind/internal/notify"
	"github.com/overmindlabs/overmind/internal/repository"
)

type mockRepository struct {
	meetings    map[string]*repository.Meeting
	statusCalls []repository.MeetingStatus
	deleteCalls []string
}

func newMockRepository(meetings ...*repository.Meeting) *mockRepository {
	m := &mockRepository{meetings: map[string]*repository.Meeting{}}
	for _, meeting := range meetings {
		m.meetings[meeting.ID] = meeting
	}
	return m
}

func (m *mockRepository) CreateMeeting(_ context.Context, input repository.CreateMeetingInput) (*repository.Meeting, error) {
	status := input.Status
	if status == "" {
		status = repository.MeetingStatusPending
	}
	meeting := &repository.Meeting{
		ID:        "m-" + strconv.Itoa(len(m.meetings)+1),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Type:      input.Type,
		Language:  input.Language,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (m *mockRepository) GetMeeting(_ context.Context, id string) (*repository.Meeting, error) {
	meeting, ok := m.meetings[id]
	if !ok {
		return nil, nil
	}
	copied := *meeting
	return &copied, nil
}

func (m *mockRepository) ListMeetings(_ context.Context, _, limit int) ([]repository.Meeting, int, error) {
	out := make([]repository.Meeting, 0, len(m.meetings))
	for _, meeting := range m.meetings {
		if len(out) == limit {
			break
		}
		out = append(out, *meeting)
	}
	return out, len(m.meetings), nil
}

func (m *mockRepository) PatchMeeting(_ context.Context, id string, input repository.PatchMeetingInput) (*repository.Meeting, error) {
	meeting, ok := m.meetings[id]
	if !ok {
		return nil, nil
	}
	if input.Transcript != nil {
		meeting.Transcript = input.Transcript
	}
	if input.Duration != nil {
		meeting.Duration = input.Duration
	}
	if input.Status != nil {
		meeting.Status = *input.Status
	}
	copied := *meeting
	return &copied, nil
}

func (m *mockRepository) SetMeetingStatus(_ context.Context, id string, status repository.MeetingStatus) error {
	m.statusCalls = append(m.statusCalls, status)
	if meeting, ok := m.meetings[id]; ok {
		meeting.Status = status
	}
	return nil
}

func (m *mockRepository) SaveTranscription(_ context.Context, id, transcript string, durationSeconds int, audioKey string) error {
	meeting := m.meetings[id]
	meeting.Transcript = &transcript
	meeting.Duration = &durationSeconds
	meeting.AudioKey = &audioKey
	meeting.Status = repository.MeetingStatusProcessing
	return nil
}

func (m *mockRepository) SaveRecap(_ context.Context, id, recap string) error {
	m.meetings[id].Recap = &recap
	return nil
}

func (m *mockRepository) SaveHighlightsCompleted(_ context.Context, id, highlights string) error {
	meeting := m.meetings[id]
	meeting.Highlights = &highlights
	meeting.Status = repository.MeetingStatusCompleted
	return nil
}

func (m *mockRepository) DeleteMeeting(_ context.Context, id string) error {
	m.deleteCalls = append(m.deleteCalls, id)
	delete(m.meetings, id)
	return nil
}

func (m *mockRepository) EnsureSettings(_ context.Context, defaultContext string) (*repository.AppSettings, error) {
	return &repository.AppSettings{ID: "s-1", HighlightContext: defaultContext}, nil
}

func (m *mockRepository) SaveSettings(_ context.Context, highlightContext string) (*repository.AppSettings, error) {
	return &repository.AppSettings{ID: "s-1", HighlightContext: highlightContext}, nil
}

type mockBlobStore struct {
	objects     map[string][]byte
	deleteErr   error
	existsErr   error
	deleteCalls []string
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{objects: map[string][]byte{}}
}

func (m *mockBlobStore) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.objects[key] = body
	return key, nil
}

func (m *mockBlobStore) Download(_ context.Context, key string) ([]byte, error) {
	return m.objects[key], nil
}

func (m *mockBlobStore) Delete(_ context.Context, key string) error {
	m.deleteCalls = append(m.deleteCalls, key)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *mockBlobStore) Exists(_ context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *mockBlobStore) SignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

type mockNotifier struct {
	announcements []notify.Announcement
	err           error
}

func (m *mockNotifier) Announce(_ context.Context, a notify.Announcement) error {
	m.announcements = append(m.announcements, a)
	return m.err
}

// scriptedStreamer returns one canned chunked response per OpenStream call.
type scriptedStreamer struct {
	scripts []string
	openErr error
	calls   int
}

func (s *scriptedStreamer) OpenStream(_ context.Context, _ openai.ChatCompletionRequest) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	script := s.scripts[s.calls]
	s.calls++
	return io.NopCloser(strings.NewReader(script)), nil
}

func chunked(document string) string {
	return `data: {"choices":[{"delta":{"content":` + strconv.Quote(document) + `}}]}` + "\ndata: [DONE]\n"
}

func newTestPipeline(repo *mockRepository, blobs *mockBlobStore, streamer *scriptedStreamer, notifier *mockNotifier) *Pipeline {
	runner := analysis.NewRunner(streamer, repo, "llama-3.1-8b-instant")
	return NewPipeline(repo, blobs, runner, notifier, "en-US")
}

func strPtr(s string) *string { return &s }

func TestCreate_Validation(t *testing.T) {
	p := newTestPipeline(newMockRepository(), newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	if _, err := p.Create(context.Background(), CreateInput{Name: "", Email: "a@b.test"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := p.Create(context.Background(), CreateInput{Name: "Sync", Email: "not-an-email"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := p.Create(context.Background(), CreateInput{Name: "Sync", Email: "a@b.test", Status: "ARCHIVED"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	m, err := p.Create(context.Background(), CreateInput{Name: "Sync", Email: "a@b.test"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if m.Status != repository.MeetingStatusPending {
		t.Fatalf("expected PENDING status, got %s", m.Status)
	}
	if m.Language != "en-US" {
		t.Fatalf("expected default language, got %s", m.Language)
	}
}

func TestList_PaginationMath(t *testing.T) {
	repo := newMockRepository()
	for range 25 {
		_, _ = repo.CreateMeeting(context.Background(), repository.CreateMeetingInput{Name: "m", Email: "a@b.test"})
	}
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	meetings, page, err := p.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("expected defaulted page 1 limit 10, got %+v", page)
	}
	if page.TotalCount != 25 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(meetings) != 10 {
		t.Fatalf("expected 10 meetings, got %d", len(meetings))
	}
}

func TestStartRecording(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusPending})
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	if err := p.StartRecording(context.Background(), "m-1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repo.meetings["m-1"].Status != repository.MeetingStatusRecording {
		t.Fatalf("expected RECORDING, got %s", repo.meetings["m-1"].Status)
	}

	if err := p.StartRecording(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPatch_RecordingStatusUsesLifecycle(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusPending})
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	status := repository.MeetingStatusRecording
	m, err := p.Patch(context.Background(), "m-1", PatchInput{Status: &status})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if m.Status != repository.MeetingStatusRecording {
		t.Fatalf("expected RECORDING, got %s", m.Status)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0] != repository.MeetingStatusRecording {
		t.Fatalf("expected one lifecycle transition, got %v", repo.statusCalls)
	}

	if _, err := p.Patch(context.Background(), "missing", PatchInput{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// A patch carrying any other field takes the generic partial update.
	duration := 42
	if _, err := p.Patch(context.Background(), "m-1", PatchInput{Status: &status, Duration: &duration}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(repo.statusCalls) != 1 {
		t.Fatalf("expected no further lifecycle transitions, got %v", repo.statusCalls)
	}
}

func TestCompleteTranscription(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusRecording})
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	err := p.CompleteTranscription(context.Background(), "m-1", "we shipped it", 90, "uploads/m-1.webm")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	m := repo.meetings["m-1"]
	if m.Status != repository.MeetingStatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", m.Status)
	}
	if m.Transcript == nil || *m.Transcript != "we shipped it" {
		t.Fatalf("unexpected transcript: %v", m.Transcript)
	}
	if m.Duration == nil || *m.Duration != 90 {
		t.Fatalf("unexpected duration: %v", m.Duration)
	}
}

func TestCompleteTranscription_EmptyTranscriptCommitsNothing(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusRecording})
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	err := p.CompleteTranscription(context.Background(), "m-1", "   \n\t", 90, "uploads/m-1.webm")
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}

	m := repo.meetings["m-1"]
	if m.Status != repository.MeetingStatusRecording {
		t.Fatalf("expected meeting to stay RECORDING, got %s", m.Status)
	}
	if m.Transcript != nil {
		t.Fatalf("expected no transcript committed, got %q", *m.Transcript)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{
		ID:         "m-1",
		Name:       "Planning sync",
		Status:     repository.MeetingStatusProcessing,
		Transcript: strPtr("long transcript"),
	})
	notifier := &mockNotifier{}
	streamer := &scriptedStreamer{scripts: []string{
		chunked(`{"summary":"Planning sync","keyPoints":["budget"],"actionItems":[],"nextSteps":[],"decisions":[]}`),
		chunked(`{"highlights":[{"category":"decision","content":"Freeze scope","importance":"high"}]}`),
	}}
	p := newTestPipeline(repo, newMockBlobStore(), streamer, notifier)

	if err := p.Analyze(context.Background(), "m-1", "long transcript", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	m := repo.meetings["m-1"]
	if m.Status != repository.MeetingStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", m.Status)
	}
	if m.Recap == nil || !strings.Contains(*m.Recap, "MEETING SUMMARY:") {
		t.Fatalf("unexpected recap: %v", m.Recap)
	}
	if m.Highlights == nil || !strings.Contains(*m.Highlights, "1. ⚡ Freeze scope") {
		t.Fatalf("unexpected highlights: %v", m.Highlights)
	}

	if len(notifier.announcements) != 1 {
		t.Fatalf("expected one announcement, got %d", len(notifier.announcements))
	}
	a := notifier.announcements[0]
	if a.Status != string(repository.MeetingStatusCompleted) || a.MeetingName != "Planning sync" {
		t.Fatalf("unexpected announcement: %+v", a)
	}
	if !strings.Contains(a.Highlights, "Freeze scope") {
		t.Fatalf("expected highlights in announcement, got %q", a.Highlights)
	}
}

func TestAnalyze_HighlightsParseFailurePreservesRecap(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{
		ID:         "m-1",
		Name:       "Planning sync",
		Status:     repository.MeetingStatusProcessing,
		Transcript: strPtr("long transcript"),
	})
	streamer := &scriptedStreamer{scripts: []string{
		chunked(`{"summary":"Planning sync","keyPoints":["budget"],"actionItems":[],"nextSteps":[],"decisions":[]}`),
		chunked(`this is not json`),
	}}
	p := newTestPipeline(repo, newMockBlobStore(), streamer, &mockNotifier{})

	err := p.Analyze(context.Background(), "m-1", "long transcript", nil)
	if !errors.Is(err, completion.ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}

	m := repo.meetings["m-1"]
	if m.Status != repository.MeetingStatusFailed {
		t.Fatalf("expected FAILED, got %s", m.Status)
	}
	if m.Recap == nil || !strings.Contains(*m.Recap, "MEETING SUMMARY:") {
		t.Fatalf("expected recap preserved, got %v", m.Recap)
	}
	if m.Highlights != nil {
		t.Fatalf("expected nil highlights, got %q", *m.Highlights)
	}
}

func TestRunRecapStage_FailureMarksFailed(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Name: "Sync", Status: repository.MeetingStatusProcessing})
	notifier := &mockNotifier{}
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{openErr: errors.New("upstream down")}, notifier)

	if _, err := p.RunRecapStage(context.Background(), "m-1", "transcript", nil); err == nil {
		t.Fatal("expected error")
	}
	if repo.meetings["m-1"].Status != repository.MeetingStatusFailed {
		t.Fatalf("expected FAILED, got %s", repo.meetings["m-1"].Status)
	}
	if len(notifier.announcements) != 1 || notifier.announcements[0].Status != string(repository.MeetingStatusFailed) {
		t.Fatalf("expected FAILED announcement, got %+v", notifier.announcements)
	}
}

func TestRunRecapStage_CancellationLeavesStateUntouched(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusProcessing})
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{openErr: context.Canceled}, &mockNotifier{})

	if _, err := p.RunRecapStage(context.Background(), "m-1", "transcript", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.meetings["m-1"].Status != repository.MeetingStatusProcessing {
		t.Fatalf("expected PROCESSING to be preserved, got %s", repo.meetings["m-1"].Status)
	}
	if len(repo.statusCalls) != 0 {
		t.Fatalf("expected no status writes, got %v", repo.statusCalls)
	}
}

func TestRunHighlightsStage_RequiresCompletedRecap(t *testing.T) {
	repo := newMockRepository(
		&repository.Meeting{ID: "no-recap", Status: repository.MeetingStatusProcessing},
		&repository.Meeting{ID: "failed", Status: repository.MeetingStatusFailed, Recap: strPtr("recap")},
	)
	p := newTestPipeline(repo, newMockBlobStore(), &scriptedStreamer{}, &mockNotifier{})

	if _, err := p.RunHighlightsStage(context.Background(), "no-recap", "transcript", nil); !errors.Is(err, ErrStageOrder) {
		t.Fatalf("expected ErrStageOrder without recap, got %v", err)
	}
	if _, err := p.RunHighlightsStage(context.Background(), "failed", "transcript", nil); !errors.Is(err, ErrStageOrder) {
		t.Fatalf("expected ErrStageOrder for FAILED meeting, got %v", err)
	}
	if _, err := p.RunHighlightsStage(context.Background(), "missing", "transcript", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyze_RecapFailureSkipsHighlights(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusProcessing})
	streamer := &scriptedStreamer{openErr: errors.New("upstream down")}
	p := newTestPipeline(repo, newMockBlobStore(), streamer, &mockNotifier{})

	if err := p.Analyze(context.Background(), "m-1", "transcript", nil); err == nil {
		t.Fatal("expected error")
	}
	if streamer.calls != 0 {
		t.Fatalf("expected no completed stream opens, got %d", streamer.calls)
	}
	if repo.meetings["m-1"].Highlights != nil {
		t.Fatal("expected no highlights after recap failure")
	}
}

func TestGet_AttachesAudioURL(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusCompleted, AudioKey: strPtr("uploads/m-1.webm")})
	blobs := newMockBlobStore()
	blobs.objects["uploads/m-1.webm"] = []byte("audio")
	p := newTestPipeline(repo, blobs, &scriptedStreamer{}, &mockNotifier{})

	detail, err := p.Get(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if detail.AudioURL == nil || *detail.AudioURL != "https://storage.test/uploads/m-1.webm" {
		t.Fatalf("unexpected audio url: %v", detail.AudioURL)
	}
}

func TestGet_BlobFailureStillReturnsMeeting(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusCompleted, AudioKey: strPtr("uploads/m-1.webm")})
	blobs := newMockBlobStore()
	blobs.existsErr = errors.New("storage down")
	p := newTestPipeline(repo, blobs, &scriptedStreamer{}, &mockNotifier{})

	detail, err := p.Get(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if detail.AudioURL != nil {
		t.Fatalf("expected no audio url, got %v", *detail.AudioURL)
	}
	if detail.ID != "m-1" {
		t.Fatalf("unexpected meeting: %+v", detail.Meeting)
	}
}

func TestDelete_BlobFailureDoesNotBlock(t *testing.T) {
	repo := newMockRepository(&repository.Meeting{ID: "m-1", Status: repository.MeetingStatusCompleted, AudioKey: strPtr("uploads/m-1.webm")})
	blobs := newMockBlobStore()
	blobs.deleteErr = errors.New("storage down")
	p := newTestPipeline(repo, blobs, &scriptedStreamer{}, &mockNotifier{})

	if err := p.Delete(context.Background(), "m-1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(blobs.deleteCalls) != 1 {
		t.Fatalf("expected one blob delete attempt, got %d", len(blobs.deleteCalls))
	}
	if len(repo.deleteCalls) != 1 || repo.deleteCalls[0] != "m-1" {
		t.Fatalf("expected record deletion, got %v", repo.deleteCalls)
	}
}
