package domain

import (
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/domain/intake"
	"github.com/yungbote/applytrack-backend/internal/domain/jobs"
	"github.com/yungbote/applytrack-backend/internal/domain/profile"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
	"github.com/yungbote/applytrack-backend/internal/domain/templates"
	"github.com/yungbote/applytrack-backend/internal/domain/uploads"
	"github.com/yungbote/applytrack-backend/internal/domain/user"
)

type User = user.User

type Job = jobs.Job
type JobStatus = jobs.Status

type Experience = profile.Experience
type Achievement = profile.Achievement
type Education = profile.Education
type Certification = profile.Certification
type Profile = profile.Profile

type DocumentKind = documents.Kind
type DocumentVersion = documents.Version
type DocumentEventType = documents.EventType

type Proposal = proposals.Proposal
type ProposalType = proposals.Type
type ProposalStatus = proposals.Status

type IntakeSession = intake.Session

type Template = templates.Template
type TemplateType = templates.Type

type Response = responses.Response
type ResponseSource = responses.Source

type Upload = uploads.Upload
