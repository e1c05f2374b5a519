package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/SscSPs/job_closing_service/internal/logger"
	"github.com/spf13/cobra"
)

func newComputeCommand(opts *options) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a closing without storing it",
		Example: `  closingctl compute --input closing.json
  cat closing.json | closingctl compute --input -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("compute")

			req, err := readClosingRequest(cmd, input)
			if err != nil {
				return err
			}

			calc := closing.NewCalculator(closing.DefaultOptions())
			result, err := calc.Compute(req.ToDomain())
			if err != nil {
				return err
			}

			log.Debug().
				Str("total_amount", result.TotalAmount.String()).
				Str("sum_check", result.SumCheck.String()).
				Msg("Closing computed")

			if err := printJSON(cmd, dto.ToClosingResultResponse(result)); err != nil {
				return err
			}
			if !calc.Reconciled(result) {
				return fmt.Errorf("%w: sumCheck %s", apperrors.ErrReconciliation, result.SumCheck.String())
			}
			if result.Advisory.HasWarnings() {
				log.Warn().
					Bool("sum_mismatch", result.Advisory.SumMismatch).
					Interface("out_of_range", result.Advisory.OutOfRange).
					Msg("Commission percentages need attention")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Closing form JSON file, or - for stdin")
	return cmd
}

func newCloseCommand(opts *options) *cobra.Command {
	var (
		input        string
		jobID        string
		technicianID string
		leadSourceID string
	)
	cmd := &cobra.Command{
		Use:     "close",
		Short:   "Close a job in the local store",
		Example: `  closingctl close --db closings.db --job job-42 --input closing.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("close")
			if jobID == "" {
				return fmt.Errorf("--job is required")
			}

			req, err := readClosingRequest(cmd, input)
			if err != nil {
				return err
			}

			db, repo, svc, err := openStore(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := serviceContext(cmd)
			if _, err := repo.FindJobByID(ctx, opts.tenantID, jobID); err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				now := time.Now().UTC()
				job := domain.Job{
					JobID:        jobID,
					TenantID:     opts.tenantID,
					TechnicianID: technicianID,
					LeadSourceID: leadSourceID,
					AuditFields: domain.AuditFields{
						CreatedAt:     now,
						CreatedBy:     opts.userID,
						LastUpdatedAt: now,
						LastUpdatedBy: opts.userID,
					},
				}
				if err := repo.SaveJob(ctx, job); err != nil {
					return fmt.Errorf("create job %s: %w", jobID, err)
				}
				log.Info().Str("job_id", jobID).Msg("Job created in local store")
			}

			record, err := svc.CloseJob(ctx, opts.tenantID, jobID, req, opts.userID)
			if err != nil {
				return err
			}

			log.Info().
				Str("job_id", jobID).
				Str("closing_id", record.ClosingID).
				Msg("Job closed")
			return printJSON(cmd, dto.ToClosingRecordResponse(record))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Closing form JSON file, or - for stdin")
	cmd.Flags().StringVar(&jobID, "job", "", "Job ID")
	cmd.Flags().StringVar(&technicianID, "technician", "", "Technician assigned to the job, used when the job is created")
	cmd.Flags().StringVar(&leadSourceID, "lead-source", "", "Lead source of the job, used when the job is created")
	return cmd
}

func newShowCommand(opts *options) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a job's stored closing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" {
				return fmt.Errorf("--job is required")
			}

			db, _, svc, err := openStore(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			view, err := svc.GetClosing(serviceContext(cmd), opts.tenantID, jobID, opts.userID)
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToGetClosingResponse(view))
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "Job ID")
	return cmd
}

func newReopenCommand(opts *options) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "reopen",
		Short: "Unlock a closed job so it can be closed again",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("reopen")
			if jobID == "" {
				return fmt.Errorf("--job is required")
			}

			db, _, svc, err := openStore(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := svc.ReopenJob(serviceContext(cmd), opts.tenantID, jobID, opts.userID); err != nil {
				return err
			}

			log.Info().Str("job_id", jobID).Msg("Job reopened")
			fmt.Fprintf(cmd.OutOrStdout(), "job %s reopened\n", jobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "Job ID")
	return cmd
}
