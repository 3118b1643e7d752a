// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/robfig/cron/v3"
)

var jobNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateSchedule checks a standard cron expression or descriptor.
func ValidateSchedule(expr string) error {
	if expr == "" {
		return errors.New("schedule is required")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return nil
}

// ValidateJob checks a job before registration.
func ValidateJob(job Job) error {
	if !jobNamePattern.MatchString(job.Name) {
		return fmt.Errorf("invalid job name %q", job.Name)
	}
	if job.Run == nil {
		return fmt.Errorf("job %s has no run function", job.Name)
	}
	return ValidateSchedule(job.Schedule)
}
