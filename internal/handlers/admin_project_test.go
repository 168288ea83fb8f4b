// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"
	"time"

	"oikos/internal/models"
)

func dateStr(t time.Time) string { return t.Format("2006-01-02") }

func TestApplyProjectFieldsRejectsFutureDate(t *testing.T) {
	tomorrow := dateStr(time.Now().UTC().AddDate(0, 0, 1))

	p := &models.Project{}
	errs := applyProjectFields(p, &projectRequest{ProjectDate: &tomorrow})
	if errs == nil || errs["project_date"] == "" {
		t.Fatalf("future project_date %s accepted, errs = %v", tomorrow, errs)
	}
	if p.ProjectDate != nil {
		t.Error("rejected date must not be applied to the model")
	}
}

func TestApplyProjectFieldsAcceptsTodayAndPastDates(t *testing.T) {
	for _, d := range []string{dateStr(time.Now().UTC()), "2020-06-15"} {
		p := &models.Project{}
		date := d
		if errs := applyProjectFields(p, &projectRequest{ProjectDate: &date}); errs != nil {
			t.Errorf("project_date %s rejected: %v", d, errs)
			continue
		}
		if p.ProjectDate == nil {
			t.Errorf("project_date %s not applied", d)
		}
	}
}

func TestApplyProjectFieldsDateFormat(t *testing.T) {
	bad := "15/06/2020"
	errs := applyProjectFields(&models.Project{}, &projectRequest{ProjectDate: &bad})
	if errs == nil || errs["project_date"] == "" {
		t.Errorf("malformed date accepted, errs = %v", errs)
	}
}

func TestApplyProjectFieldsBounds(t *testing.T) {
	neg := -1.0
	if errs := applyProjectFields(&models.Project{}, &projectRequest{Area: &neg}); errs["area"] == "" {
		t.Error("negative area accepted")
	}
	order := -1
	if errs := applyProjectFields(&models.Project{}, &projectRequest{SortOrder: &order}); errs["sort_order"] == "" {
		t.Error("negative sort_order accepted")
	}
	status := "published-ish"
	if errs := applyProjectFields(&models.Project{}, &projectRequest{Status: &status}); errs["status"] == "" {
		t.Error("unknown status accepted")
	}
}
