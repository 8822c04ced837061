package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
)

// Service owns every transition of the project/proposal/time-entry state
// machine. Handlers hanya parsing + mapping error; semua aturan ada di sini.
type Service struct {
	DB     *gorm.DB
	Notify *notify.Service
}

func New(db *gorm.DB, n *notify.Service) *Service {
	return &Service{DB: db, Notify: n}
}

type SubmitProposalInput struct {
	CoverLetter    string
	ProposedBudget float64
	Timeline       string
}

// SubmitProposal creates a pending proposal by freelancerID against an open
// project and notifies the project owner. The notification is best-effort:
// kalau gagal, proposal tetap tersimpan.
func (s *Service) SubmitProposal(freelancerID, projectID uuid.UUID, in SubmitProposalInput) (*models.Proposal, error) {
	if strings.TrimSpace(in.CoverLetter) == "" {
		return nil, fmt.Errorf("%w: cover letter is required", ErrInvalidInput)
	}
	if in.ProposedBudget <= 0 {
		return nil, fmt.Errorf("%w: proposed budget must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Timeline) == "" {
		return nil, fmt.Errorf("%w: timeline is required", ErrInvalidInput)
	}

	var freelancer models.User
	if err := s.DB.First(&freelancer, "id = ?", freelancerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, freelancerID)
		}
		return nil, err
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}

	if project.Status != models.ProjectStatusOpen {
		return nil, fmt.Errorf("%w: project is no longer open for proposals", ErrInvalidState)
	}

	proposal := models.Proposal{
		ProjectID:      projectID,
		FreelancerID:   freelancerID,
		CoverLetter:    in.CoverLetter,
		ProposedBudget: in.ProposedBudget,
		Timeline:       in.Timeline,
		Status:         models.ProposalStatusPending,
	}

	if err := s.DB.Create(&proposal).Error; err != nil {
		return nil, err
	}

	relID := proposal.ID
	s.Notify.Emit(notify.Notice{
		UserID:    project.ClientID,
		Title:     "New Proposal Received",
		Message:   fmt.Sprintf("%s %s submitted a proposal for %q", freelancer.FirstName, freelancer.LastName, project.Title),
		Type:      models.NotifProposalReceived,
		RelatedID: &relID,
		ActionURL: "/project/" + projectID.String(),
	})

	return &proposal, nil
}

// AcceptProposal runs the open -> in-progress transition: proposal accepted,
// project assigned, dan sisa proposal pending di-reject otomatis. Ketiga
// write jalan dalam satu transaksi; notifikasi menyusul setelah commit.
func (s *Service) AcceptProposal(clientID, proposalID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := s.DB.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: proposal %s", ErrNotFound, proposalID)
		}
		return nil, err
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", proposal.ProjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, proposal.ProjectID)
		}
		return nil, err
	}

	if project.ClientID != clientID {
		return nil, fmt.Errorf("%w: only the project owner can accept proposals", ErrForbidden)
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, fmt.Errorf("%w: proposal is already %s", ErrConflict, proposal.Status)
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, fmt.Errorf("%w: project is %s, not open", ErrInvalidState, project.Status)
	}

	var siblings []models.Proposal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Proposal{}).
			Where("id = ?", proposal.ID).
			Update("status", models.ProposalStatusAccepted).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]interface{}{
				"status":              models.ProjectStatusInProgress,
				"selected_freelancer": proposal.FreelancerID,
			}).Error; err != nil {
			return err
		}

		// auto-reject sisa proposal yang masih pending di project ini
		if err := tx.
			Where("project_id = ? AND id <> ? AND status = ?", project.ID, proposal.ID, models.ProposalStatusPending).
			Find(&siblings).Error; err != nil {
			return err
		}
		if len(siblings) > 0 {
			if err := tx.Model(&models.Proposal{}).
				Where("project_id = ? AND id <> ? AND status = ?", project.ID, proposal.ID, models.ProposalStatusPending).
				Update("status", models.ProposalStatusRejected).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	proposal.Status = models.ProposalStatusAccepted

	relID := project.ID
	s.Notify.Emit(notify.Notice{
		UserID:    proposal.FreelancerID,
		Title:     "Proposal Accepted!",
		Message:   fmt.Sprintf("Your proposal for %q has been accepted.", project.Title),
		Type:      models.NotifProposalAccepted,
		RelatedID: &relID,
		ActionURL: "/project/" + project.ID.String(),
	})
	for _, sib := range siblings {
		s.Notify.Emit(notify.Notice{
			UserID:    sib.FreelancerID,
			Title:     "Proposal Rejected",
			Message:   fmt.Sprintf("Your proposal for %q was not selected.", project.Title),
			Type:      models.NotifProposalRejected,
			RelatedID: &relID,
			ActionURL: "/project/" + project.ID.String(),
		})
	}

	return &proposal, nil
}

// RejectProposal marks one pending proposal rejected. Project state tidak berubah.
func (s *Service) RejectProposal(clientID, proposalID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := s.DB.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: proposal %s", ErrNotFound, proposalID)
		}
		return nil, err
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", proposal.ProjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, proposal.ProjectID)
		}
		return nil, err
	}

	if project.ClientID != clientID {
		return nil, fmt.Errorf("%w: only the project owner can reject proposals", ErrForbidden)
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, fmt.Errorf("%w: proposal is already %s", ErrConflict, proposal.Status)
	}

	if err := s.DB.Model(&models.Proposal{}).
		Where("id = ?", proposal.ID).
		Update("status", models.ProposalStatusRejected).Error; err != nil {
		return nil, err
	}
	proposal.Status = models.ProposalStatusRejected

	relID := project.ID
	s.Notify.Emit(notify.Notice{
		UserID:    proposal.FreelancerID,
		Title:     "Proposal Rejected",
		Message:   fmt.Sprintf("Your proposal for %q was not selected.", project.Title),
		Type:      models.NotifProposalRejected,
		RelatedID: &relID,
		ActionURL: "/project/" + project.ID.String(),
	})

	return &proposal, nil
}

// CompleteProject is the in-progress -> completed transition. Hanya
// freelancer yang ditugaskan yang boleh; completed itu terminal.
func (s *Service) CompleteProject(freelancerID, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}

	if project.SelectedFreelancer == nil || *project.SelectedFreelancer != freelancerID {
		return nil, fmt.Errorf("%w: you are not assigned to this project", ErrForbidden)
	}
	if project.Status != models.ProjectStatusInProgress {
		return nil, fmt.Errorf("%w: project is %s, not in-progress", ErrInvalidState, project.Status)
	}

	if err := s.DB.Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("status", models.ProjectStatusCompleted).Error; err != nil {
		return nil, err
	}
	project.Status = models.ProjectStatusCompleted

	relID := project.ID
	s.Notify.Emit(notify.Notice{
		UserID:    project.ClientID,
		Title:     "Project Completed",
		Message:   fmt.Sprintf("The project %q has been marked as completed.", project.Title),
		Type:      models.NotifProjectCompleted,
		RelatedID: &relID,
		ActionURL: "/project/" + project.ID.String(),
	})

	return &project, nil
}

// StartTimer opens a new time entry. Satu freelancer hanya boleh punya satu
// timer aktif, lintas semua project. Pre-insert lookup ini best-effort
// (tidak dilock), sesuai kontrak weak-consistency di shared-resource policy.
func (s *Service) StartTimer(freelancerID, projectID uuid.UUID, description string) (*models.TimeEntry, error) {
	var freelancer models.User
	if err := s.DB.First(&freelancer, "id = ?", freelancerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, freelancerID)
		}
		return nil, err
	}
	if freelancer.Role != models.RoleFreelancer {
		return nil, fmt.Errorf("%w: only freelancers can track time", ErrForbidden)
	}

	var active models.TimeEntry
	err := s.DB.Where("freelancer_id = ? AND end_time IS NULL", freelancerID).First(&active).Error
	if err == nil {
		return nil, fmt.Errorf("%w: an active timer already exists, stop it first", ErrConflict)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}

	entry := models.TimeEntry{
		FreelancerID: freelancerID,
		ProjectID:    projectID,
		StartTime:    time.Now(),
		Description:  description,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

// StopTimer closes the caller's open entry. Entry yang sudah berhenti tidak
// bisa di-stop lagi; double stop dijawab NotFound, bukan silent success.
func (s *Service) StopTimer(freelancerID, entryID uuid.UUID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.DB.Where("id = ? AND freelancer_id = ? AND end_time IS NULL", entryID, freelancerID).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: active time entry not found, it may have already been stopped", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	end := time.Now()
	minutes := models.DurationBetween(entry.StartTime, end)

	if err := s.DB.Model(&models.TimeEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"end_time":         end,
			"duration_minutes": minutes,
		}).Error; err != nil {
		return nil, err
	}

	entry.EndTime = &end
	entry.DurationMinutes = minutes
	return &entry, nil
}
