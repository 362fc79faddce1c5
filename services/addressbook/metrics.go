// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package addressbook

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationsTotal counts address book operations by outcome.
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "addressbook_operations_total",
		Help: "Total address book operations by operation and result",
	}, []string{"operation", "result"})

	// storedEntities tracks the size of the most recently touched book.
	storedEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "addressbook_entities",
		Help: "Number of persons and groups held by the address book",
	}, []string{"kind"})
)

// recordOperation increments operationsTotal for op, classifying err.
func recordOperation(op string, err error) {
	operationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrInvalidData):
		return "invalid_data"
	default:
		return "error"
	}
}
