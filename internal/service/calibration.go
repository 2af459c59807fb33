package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
)

// CalibrationReport records where a batch landed against the statistical
// bands. An empty Violations list means the tuning holds.
type CalibrationReport struct {
	Games          int      `json:"games"`
	MeanTotalGoals float64  `json:"mean_total_goals"`
	OvertimeShare  float64  `json:"overtime_share"`
	ShootoutShare  float64  `json:"shootout_share"`
	HomeWinRate    float64  `json:"home_win_rate"`
	Violations     []string `json:"violations,omitempty"`
}

// Passed reports whether every band held.
func (r CalibrationReport) Passed() bool { return len(r.Violations) == 0 }

type calibrationService struct {
	log zerolog.Logger
}

// NewCalibrationService wires the band checker.
func NewCalibrationService(logger zerolog.Logger) CalibrationService {
	l := logger.With().Str("module", "service").Str("component", "calibration").Logger()
	return &calibrationService{log: l}
}

func (s *calibrationService) Check(sum *BatchSummary, bands config.Calibration) CalibrationReport {
	report := CalibrationReport{
		Games:          len(sum.Games),
		MeanTotalGoals: sum.MeanTotalGoals,
		OvertimeShare:  sum.OvertimeShare,
		ShootoutShare:  sum.ShootoutShare,
		HomeWinRate:    sum.HomeWinRate,
	}
	if report.Games < bands.Games {
		report.Violations = append(report.Violations,
			fmt.Sprintf("sample of %d games is below the %d the bands are stated for", report.Games, bands.Games))
	}
	if sum.MeanTotalGoals < bands.GoalsPerGameMin || sum.MeanTotalGoals > bands.GoalsPerGameMax {
		report.Violations = append(report.Violations,
			fmt.Sprintf("mean total goals %.2f outside [%.2f, %.2f]", sum.MeanTotalGoals, bands.GoalsPerGameMin, bands.GoalsPerGameMax))
	}
	if sum.OvertimeShare < bands.OvertimeMin || sum.OvertimeShare > bands.OvertimeMax {
		report.Violations = append(report.Violations,
			fmt.Sprintf("overtime share %.3f outside [%.2f, %.2f]", sum.OvertimeShare, bands.OvertimeMin, bands.OvertimeMax))
	}

	for _, v := range report.Violations {
		s.log.Warn().Str("violation", v).Msg("calibration band violated")
	}
	if report.Passed() {
		s.log.Info().
			Int("games", report.Games).
			Float64("mean_total_goals", report.MeanTotalGoals).
			Float64("overtime_share", report.OvertimeShare).
			Msg("calibration bands hold")
	}
	return report
}
