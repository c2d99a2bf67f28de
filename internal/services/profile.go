package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// loadAchievements fills Achievements on every experience concurrently.
func loadAchievements(ctx context.Context, achievements repos.AchievementRepo, exps []*types.Experience) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, exp := range exps {
		g.Go(func() error {
			rows, err := achievements.ListByExperienceID(bg(gctx), exp.ID)
			if err != nil {
				return err
			}
			exp.Achievements = rows
			return nil
		})
	}
	return g.Wait()
}

type EducationInput struct {
	School      string
	Degree      string
	Field       string
	StartDate   string
	EndDate     string
	Description string
}

type EducationPatch struct {
	School      *string
	Degree      *string
	Field       *string
	StartDate   *string
	EndDate     *string
	Description *string
}

type CertificationInput struct {
	Name          string
	Issuer        string
	IssuedOn      string
	ExpiresOn     string
	CredentialURL string
}

type CertificationPatch struct {
	Name          *string
	Issuer        *string
	IssuedOn      *string
	ExpiresOn     *string
	CredentialURL *string
}

type ProfileService interface {
	// Get assembles experiences with achievements, education and
	// certifications for the request user.
	Get(ctx context.Context) (*types.Profile, error)

	ListEducation(ctx context.Context) ([]*types.Education, error)
	GetEducation(ctx context.Context, id uint) (*types.Education, error)
	CreateEducation(ctx context.Context, in EducationInput) (*types.Education, error)
	UpdateEducation(ctx context.Context, id uint, patch EducationPatch) (*types.Education, error)
	DeleteEducation(ctx context.Context, id uint) error

	ListCertifications(ctx context.Context) ([]*types.Certification, error)
	GetCertification(ctx context.Context, id uint) (*types.Certification, error)
	CreateCertification(ctx context.Context, in CertificationInput) (*types.Certification, error)
	UpdateCertification(ctx context.Context, id uint, patch CertificationPatch) (*types.Certification, error)
	DeleteCertification(ctx context.Context, id uint) error
}

type profileService struct {
	log            *logger.Logger
	experiences    repos.ExperienceRepo
	achievements   repos.AchievementRepo
	education      repos.EducationRepo
	certifications repos.CertificationRepo
}

func NewProfileService(
	log *logger.Logger,
	experiences repos.ExperienceRepo,
	achievements repos.AchievementRepo,
	education repos.EducationRepo,
	certifications repos.CertificationRepo,
) ProfileService {
	return &profileService{
		log:            log.With("service", "ProfileService"),
		experiences:    experiences,
		achievements:   achievements,
		education:      education,
		certifications: certifications,
	}
}

func (s *profileService) Get(ctx context.Context) (*types.Profile, error) {
	const op = "Profile.Get"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	return buildProfile(ctx, userID, s.experiences, s.achievements, s.education, s.certifications)
}

func buildProfile(
	ctx context.Context,
	userID uint,
	experiences repos.ExperienceRepo,
	achievements repos.AchievementRepo,
	education repos.EducationRepo,
	certifications repos.CertificationRepo,
) (*types.Profile, error) {
	const op = "Profile.Get"
	out := &types.Profile{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := experiences.ListByUserID(bg(gctx), userID)
		if err != nil {
			return err
		}
		if err := loadAchievements(gctx, achievements, rows); err != nil {
			return err
		}
		out.Experiences = rows
		return nil
	})
	g.Go(func() error {
		rows, err := education.ListByUserID(bg(gctx), userID)
		out.Education = rows
		return err
	})
	g.Go(func() error {
		rows, err := certifications.ListByUserID(bg(gctx), userID)
		out.Certifications = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *profileService) ListEducation(ctx context.Context) ([]*types.Education, error) {
	userID, err := requestUser("Education.List", ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.education.ListByUserID(bg(ctx), userID)
	if err != nil {
		return nil, storeErr("Education.List", err)
	}
	return rows, nil
}

func (s *profileService) GetEducation(ctx context.Context, id uint) (*types.Education, error) {
	row, err := s.education.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Education.Get", err)
	}
	if row == nil {
		return nil, notFound("Education.Get", "Education")
	}
	return row, nil
}

func (s *profileService) CreateEducation(ctx context.Context, in EducationInput) (*types.Education, error) {
	const op = "Education.Create"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.education.Create(bg(ctx), &types.Education{
		UserID:      userID,
		School:      strings.TrimSpace(in.School),
		Degree:      strings.TrimSpace(in.Degree),
		Field:       strings.TrimSpace(in.Field),
		StartDate:   strings.TrimSpace(in.StartDate),
		EndDate:     strings.TrimSpace(in.EndDate),
		Description: in.Description,
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return row, nil
}

func (s *profileService) UpdateEducation(ctx context.Context, id uint, patch EducationPatch) (*types.Education, error) {
	if _, err := s.GetEducation(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	setIf(updates, "school", trimPtr(patch.School))
	setIf(updates, "degree", trimPtr(patch.Degree))
	setIf(updates, "field", trimPtr(patch.Field))
	setIf(updates, "start_date", trimPtr(patch.StartDate))
	setIf(updates, "end_date", trimPtr(patch.EndDate))
	setIf(updates, "description", patch.Description)
	if _, err := s.education.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr("Education.Update", err)
	}
	return s.GetEducation(ctx, id)
}

func (s *profileService) DeleteEducation(ctx context.Context, id uint) error {
	n, err := s.education.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Education.Delete", err)
	}
	if n == 0 {
		return notFound("Education.Delete", "Education")
	}
	return nil
}

func (s *profileService) ListCertifications(ctx context.Context) ([]*types.Certification, error) {
	userID, err := requestUser("Certifications.List", ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.certifications.ListByUserID(bg(ctx), userID)
	if err != nil {
		return nil, storeErr("Certifications.List", err)
	}
	return rows, nil
}

func (s *profileService) GetCertification(ctx context.Context, id uint) (*types.Certification, error) {
	row, err := s.certifications.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Certifications.Get", err)
	}
	if row == nil {
		return nil, notFound("Certifications.Get", "Certification")
	}
	return row, nil
}

func (s *profileService) CreateCertification(ctx context.Context, in CertificationInput) (*types.Certification, error) {
	const op = "Certifications.Create"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.certifications.Create(bg(ctx), &types.Certification{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		Issuer:        strings.TrimSpace(in.Issuer),
		IssuedOn:      strings.TrimSpace(in.IssuedOn),
		ExpiresOn:     strings.TrimSpace(in.ExpiresOn),
		CredentialURL: strings.TrimSpace(in.CredentialURL),
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return row, nil
}

func (s *profileService) UpdateCertification(ctx context.Context, id uint, patch CertificationPatch) (*types.Certification, error) {
	if _, err := s.GetCertification(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	setIf(updates, "name", trimPtr(patch.Name))
	setIf(updates, "issuer", trimPtr(patch.Issuer))
	setIf(updates, "issued_on", trimPtr(patch.IssuedOn))
	setIf(updates, "expires_on", trimPtr(patch.ExpiresOn))
	setIf(updates, "credential_url", trimPtr(patch.CredentialURL))
	if _, err := s.certifications.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr("Certifications.Update", err)
	}
	return s.GetCertification(ctx, id)
}

func (s *profileService) DeleteCertification(ctx context.Context, id uint) error {
	n, err := s.certifications.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Certifications.Delete", err)
	}
	if n == 0 {
		return notFound("Certifications.Delete", "Certification")
	}
	return nil
}
