package garage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"
	"garagedesk/services/storage"

	"go.uber.org/zap"
)

type memFiles struct {
	uploads []storage.UploadInput
	deleted []string
}

func (f *memFiles) Upload(_ context.Context, r io.Reader, in storage.UploadInput) (*models.StoredFile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	n, _ := io.Copy(&buf, r)
	f.uploads = append(f.uploads, in)
	id := fmt.Sprintf("%s/file-%d", in.Folder, len(f.uploads))
	return &models.StoredFile{Name: in.Filename, Kind: in.Kind, URL: "https://files.test/" + id, PublicID: id, Bytes: int(n)}, nil
}

func (f *memFiles) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fixedPlan struct {
	plan models.Plan
	err  error
}

func (p fixedPlan) EffectivePlan(context.Context, string) (models.Plan, error) {
	return p.plan, p.err
}

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

const owner = "garage-1"

type garageEnv struct {
	svc   *Service
	repos *garageRepo.MemoryRepositories
	files *memFiles
}

func setupGarageTest(plan models.Plan) *garageEnv {
	env := &garageEnv{
		repos: garageRepo.NewMemoryRepositories(),
		files: &memFiles{},
	}
	deps := DepsFromMemory(env.repos)
	deps.Files = env.files
	deps.Entitlements = fixedPlan{plan: plan}
	deps.Logger = zap.NewNop()

	env.svc = NewService(deps)
	env.svc.now = func() time.Time { return testNow }
	return env
}

var proPlan = models.Plan{ID: models.PlanPro, MaxVehicles: 0}
