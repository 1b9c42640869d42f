package usecase

import (
	"context"
	"encoding/json"

	"MarketPulse/pkg/logger"
	"MarketPulse/pkg/queue"
)

// ReportJob processes queued report generation requests.
type ReportJob struct {
	reports *ReportUsecase
	log     *logger.Logger
}

// NewReportJob creates the async report worker job.
func NewReportJob(reports *ReportUsecase, log *logger.Logger) *ReportJob {
	return &ReportJob{reports: reports, log: log}
}

func (j *ReportJob) Name() string { return "report_generator" }
func (j *ReportJob) Type() string { return MsgTypeGenerateReport }

// Handle builds the report synchronously inside the worker. Completion
// and failure are announced to dashboard clients by job id.
func (j *ReportJob) Handle(ctx context.Context, payload json.RawMessage) error {
	req, err := queue.ParsePayload[AsyncReportRequest](payload)
	if err != nil {
		return err
	}

	rpt, err := j.reports.Create(ctx, req.Request)
	if err != nil {
		j.log.Error("async report generation failed",
			logger.String("job_id", req.JobID),
			logger.Error(err))
		j.reports.notifier.Notify(EventReportFailed, map[string]string{"job_id": req.JobID})
		return err
	}

	j.reports.notifier.Notify("report.ready", map[string]string{
		"job_id":    req.JobID,
		"report_id": rpt.ID,
	})
	return nil
}
