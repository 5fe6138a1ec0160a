package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

type fixture struct {
	store    *fakeStore
	notifier *recordingNotifier
	svc      *Service
	poster   Session
	poster2  Session
	seeker   Session
	seeker2  Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		notifier: notifier,
		svc:      NewService(store, notifier, zap.NewNop()),
		poster:   NewSession(store.addAccount(), models.RolePoster),
		poster2:  NewSession(store.addAccount(), models.RolePoster),
		seeker:   NewSession(store.addAccount(), models.RoleSeeker),
		seeker2:  NewSession(store.addAccount(), models.RoleSeeker),
	}
}

func validJob() JobInput {
	return JobInput{
		Title:        "Math Tutor Needed",
		Category:     "Tutoring",
		Location:     "Downtown",
		Pay:          "20",
		Description:  "Patient tutor for high school algebra.",
		Duration:     "2-3 hours/week",
		Requirements: []string{"Strong math skills", "  ", "Flexible schedule"},
	}
}

func (f *fixture) postJob(t *testing.T) *models.Job {
	t.Helper()
	job, err := f.svc.CreateJob(context.Background(), f.poster, validJob())
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func expectKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)

	if job.Status != models.JobStatusOpen {
		t.Fatalf("expected open job, got %s", job.Status)
	}
	if job.PosterID != f.poster.AccountID {
		t.Fatal("job must be owned by the poster")
	}
	if job.Pay != 20 {
		t.Fatalf("expected pay 20, got %v", job.Pay)
	}
	reqs := job.RequirementList()
	if len(reqs) != 2 || reqs[0] != "Strong math skills" {
		t.Fatalf("unexpected requirements %v", reqs)
	}
	if c := f.notifier.last(); c.Collection != CollectionJobs || c.Op != OpInsert || c.ID != job.ID {
		t.Fatalf("unexpected change %+v", c)
	}
}

func TestCreateJobRequiresPosterRole(t *testing.T) {
	f := newFixture(t)
	for _, sess := range []Session{f.seeker, NewSession(uuid.New(), models.RoleUnassigned)} {
		_, err := f.svc.CreateJob(context.Background(), sess, validJob())
		expectKind(t, err, KindForbidden)
	}
	_, err := f.svc.CreateJob(context.Background(), Session{}, validJob())
	expectKind(t, err, KindUnauthenticated)
	if len(f.store.jobs) != 0 {
		t.Fatal("rejected posting must not be written")
	}
}

func TestCreateJobValidation(t *testing.T) {
	cases := map[string]func(in *JobInput){
		"non-numeric pay": func(in *JobInput) { in.Pay = "twenty" },
		"negative pay":    func(in *JobInput) { in.Pay = "-1" },
		"nan pay":         func(in *JobInput) { in.Pay = "NaN" },
		"empty pay":       func(in *JobInput) { in.Pay = " " },
		"missing title":   func(in *JobInput) { in.Title = "  " },
		"unknown cat":     func(in *JobInput) { in.Category = "Astrology" },
		"no location":     func(in *JobInput) { in.Location = "" },
		"no description":  func(in *JobInput) { in.Description = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			in := validJob()
			mutate(&in)
			_, err := f.svc.CreateJob(context.Background(), f.poster, in)
			expectKind(t, err, KindInvalidInput)
			var le *Error
			if !errors.As(err, &le) || len(le.Fields) == 0 {
				t.Fatalf("expected field errors, got %v", err)
			}
		})
	}
}

func TestParsePay(t *testing.T) {
	ok := map[string]float64{"0": 0, "20": 20, " 17.50 ": 17.5, "$15": 15, "$ 12.5": 12.5, "9.999": 10}
	for in, want := range ok {
		got, err := ParsePay(in)
		if err != nil || got != want {
			t.Errorf("ParsePay(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "abc", "-0.01", "Inf", "1e9", "20/hour"} {
		if _, err := ParsePay(in); err == nil {
			t.Errorf("ParsePay(%q) should fail", in)
		}
	}
}

func TestApplyScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)

	app, err := f.svc.Apply(ctx, f.seeker, job.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}

	_, err = f.svc.Apply(ctx, f.seeker, job.ID)
	expectKind(t, err, KindConflict)

	// another seeker is unaffected by the first seeker's application
	if _, err := f.svc.Apply(ctx, f.seeker2, job.ID); err != nil {
		t.Fatalf("second seeker apply: %v", err)
	}
}

func TestApplyRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)

	_, err := f.svc.Apply(ctx, f.poster, job.ID)
	expectKind(t, err, KindForbidden)

	_, err = f.svc.Apply(ctx, NewSession(uuid.New(), models.RoleUnassigned), job.ID)
	expectKind(t, err, KindForbidden)

	_, err = f.svc.Apply(ctx, f.seeker, uuid.New())
	expectKind(t, err, KindNotFound)
}

func TestDecideScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)
	app, err := f.svc.Apply(ctx, f.seeker, job.ID)
	if err != nil {
		t.Fatal(err)
	}

	// non-owner poster
	_, err = f.svc.Decide(ctx, f.poster2, app.ID, models.ApplicationAccepted)
	expectKind(t, err, KindForbidden)
	// seeker cannot decide their own application
	_, err = f.svc.Decide(ctx, f.seeker, app.ID, models.ApplicationAccepted)
	expectKind(t, err, KindForbidden)

	decided, err := f.svc.Decide(ctx, f.poster, app.ID, models.ApplicationAccepted)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != models.ApplicationAccepted {
		t.Fatalf("expected accepted, got %s", decided.Status)
	}

	for _, outcome := range []models.ApplicationStatus{models.ApplicationAccepted, models.ApplicationRejected} {
		_, err = f.svc.Decide(ctx, f.poster, app.ID, outcome)
		expectKind(t, err, KindConflict)
	}
	stored, _ := f.store.GetApplication(ctx, app.ID)
	if stored.Status != models.ApplicationAccepted {
		t.Fatalf("decided application must stay frozen, got %s", stored.Status)
	}
}

func TestDecideInvalidOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)
	app, _ := f.svc.Apply(ctx, f.seeker, job.ID)

	for _, outcome := range []models.ApplicationStatus{models.ApplicationPending, "maybe", ""} {
		_, err := f.svc.Decide(ctx, f.poster, app.ID, outcome)
		expectKind(t, err, KindInvalidInput)
	}
}

func TestDecideLosesRaceToConcurrentWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)
	app, _ := f.svc.Apply(ctx, f.seeker, job.ID)

	// Another session rejects the application between our read and our write.
	f.store.beforeTransition = func(a *models.Application) {
		a.Status = models.ApplicationRejected
	}
	_, err := f.svc.Decide(ctx, f.poster, app.ID, models.ApplicationAccepted)
	expectKind(t, err, KindConflict)

	stored, _ := f.store.GetApplication(ctx, app.ID)
	if stored.Status != models.ApplicationRejected {
		t.Fatalf("lost update: got %s", stored.Status)
	}
}

func TestCompleteJobScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)
	pending, _ := f.svc.Apply(ctx, f.seeker, job.ID)
	accepted, _ := f.svc.Apply(ctx, f.seeker2, job.ID)
	if _, err := f.svc.Decide(ctx, f.poster, accepted.ID, models.ApplicationAccepted); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.CompleteJob(ctx, f.poster2, job.ID)
	expectKind(t, err, KindForbidden)
	_, err = f.svc.CompleteJob(ctx, f.seeker, job.ID)
	expectKind(t, err, KindForbidden)

	done, err := f.svc.CompleteJob(ctx, f.poster, job.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.JobStatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	_, err = f.svc.CompleteJob(ctx, f.poster, job.ID)
	expectKind(t, err, KindConflict)

	// pending applications are closed out, decided ones are untouched
	p, _ := f.store.GetApplication(ctx, pending.ID)
	if p.Status != models.ApplicationRejected {
		t.Fatalf("pending application should be auto-rejected, got %s", p.Status)
	}
	a, _ := f.store.GetApplication(ctx, accepted.ID)
	if a.Status != models.ApplicationAccepted {
		t.Fatalf("accepted application must stay accepted, got %s", a.Status)
	}

	// a new seeker can no longer apply
	late := NewSession(f.store.addAccount(), models.RoleSeeker)
	_, err = f.svc.Apply(ctx, late, job.ID)
	expectKind(t, err, KindConflict)
}

func TestSubmitReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, rating := range []int{0, 1, 3, 5, 6} {
		_, err := f.svc.SubmitReview(ctx, f.poster, f.poster.AccountID, rating, "x")
		expectKind(t, err, KindForbidden)
	}

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.SubmitReview(ctx, f.poster, f.seeker.AccountID, rating, "great")
		expectKind(t, err, KindInvalidInput)
	}
	_, err := f.svc.SubmitReview(ctx, f.poster, f.seeker.AccountID, 4, "   ")
	expectKind(t, err, KindInvalidInput)

	_, err = f.svc.SubmitReview(ctx, f.poster, uuid.New(), 4, "who?")
	expectKind(t, err, KindNotFound)

	// role-agnostic: an account without a role can still review
	anon := NewSession(f.store.addAccount(), models.RoleUnassigned)
	if _, err := f.svc.SubmitReview(ctx, anon, f.seeker.AccountID, 5, "on time"); err != nil {
		t.Fatalf("review: %v", err)
	}
	// the same pair may review again
	if _, err := f.svc.SubmitReview(ctx, anon, f.seeker.AccountID, 4, "again"); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if len(f.store.reviews) != 2 {
		t.Fatalf("expected 2 stored reviews, got %d", len(f.store.reviews))
	}
}

func TestRatingSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, summary, err := f.svc.ListReviews(ctx, f.seeker.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Display != NoRatings || summary.Count != 0 {
		t.Fatalf("expected empty sentinel, got %+v", summary)
	}

	for _, rating := range []int{5, 4, 3} {
		if _, err := f.svc.SubmitReview(ctx, f.poster, f.seeker.AccountID, rating, "ok"); err != nil {
			t.Fatal(err)
		}
	}
	reviews, summary, err := f.svc.ListReviews(ctx, f.seeker.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 3 || reviews[0].Rating != 3 {
		t.Fatalf("expected newest first, got %+v", reviews)
	}
	if summary.Display != "4.0" || summary.Count != 3 {
		t.Fatalf("expected 4.0 over 3 reviews, got %+v", summary)
	}
}

func TestSummarizeRounding(t *testing.T) {
	cases := []struct {
		ratings []int
		want    string
	}{
		{[]int{5, 4, 4}, "4.3"},
		{[]int{5, 4, 4, 4}, "4.3"},
		{[]int{4, 3, 3, 3}, "3.3"},
		{[]int{2, 1, 1, 1}, "1.3"},
		{[]int{5, 5, 4, 4}, "4.5"},
		{[]int{1}, "1.0"},
	}
	for _, tc := range cases {
		reviews := make([]models.Review, 0, len(tc.ratings))
		for _, r := range tc.ratings {
			reviews = append(reviews, models.Review{Rating: r})
		}
		if got := Summarize(reviews).Display; got != tc.want {
			t.Errorf("Summarize(%v) = %s, want %s", tc.ratings, got, tc.want)
		}
	}
}

func TestStorageFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.store.failWith = errors.New("connection refused")

	_, err := f.svc.CreateJob(context.Background(), f.poster, validJob())
	expectKind(t, err, KindStorageUnavailable)
	if !errors.Is(err, f.store.failWith) {
		t.Fatal("storage error should wrap its cause")
	}
	_, err = f.svc.Apply(context.Background(), f.seeker, uuid.New())
	expectKind(t, err, KindStorageUnavailable)
}

func TestBrowseJobsOnlyOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.postJob(t)
	in := validJob()
	in.Title = "Lawn mowing"
	in.Category = "Gardening"
	in.Pay = "35"
	second, err := f.svc.CreateJob(ctx, f.poster, in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CompleteJob(ctx, f.poster, first.ID); err != nil {
		t.Fatal(err)
	}

	page, err := f.svc.BrowseJobs(ctx, JobFilter{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != second.ID {
		t.Fatalf("expected only the open job, got %+v", page)
	}

	page, err = f.svc.BrowseJobs(ctx, JobFilter{Category: "Tutoring"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Fatalf("completed tutoring job must not be listed, got %d", page.Total)
	}

	_, err = f.svc.BrowseJobs(ctx, JobFilter{MinPay: 50, MaxPay: 10}, 1)
	expectKind(t, err, KindInvalidInput)

	cats, err := f.svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(models.JobCategories) || cats[1].Name != "Gardening" || cats[1].Count != 1 || cats[0].Count != 0 {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func TestDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t)
	if _, err := f.svc.Apply(ctx, f.seeker, job.ID); err != nil {
		t.Fatal(err)
	}

	jobs, err := f.svc.PosterDashboard(ctx, f.poster)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || len(jobs[0].Applications) != 1 {
		t.Fatalf("expected one job with one application, got %+v", jobs)
	}
	other, err := f.svc.PosterDashboard(ctx, f.poster2)
	if err != nil || len(other) != 0 {
		t.Fatalf("other poster should see nothing, got %v %v", other, err)
	}
	_, err = f.svc.PosterDashboard(ctx, f.seeker)
	expectKind(t, err, KindForbidden)

	apps, err := f.svc.SeekerApplications(ctx, f.seeker)
	if err != nil || len(apps) != 1 {
		t.Fatalf("expected one application, got %v %v", apps, err)
	}
	_, err = f.svc.SeekerApplications(ctx, f.poster)
	expectKind(t, err, KindForbidden)
}

func TestNotifierFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeStore()
	failing := NotifierFunc(func(ctx context.Context, c Change) error {
		return errors.New("feed down")
	})
	svc := NewService(store, failing, zap.NewNop())
	poster := NewSession(store.addAccount(), models.RolePoster)

	job, err := svc.CreateJob(context.Background(), poster, validJob())
	if err != nil {
		t.Fatalf("write must succeed when notification fails: %v", err)
	}
	if _, err := store.GetJob(context.Background(), job.ID); err != nil {
		t.Fatal("job should be stored")
	}
}

func TestErrorCarriesStack(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageUnavailable("storage is unavailable, try again", cause)
	if len(err.StackTrace()) == 0 {
		t.Fatal("wrapped error has no stack")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if len(Forbidden("no").StackTrace()) == 0 {
		t.Fatal("bare error has no stack")
	}
}
