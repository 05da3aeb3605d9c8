// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton and translates field failures into the application's
// VALIDATION_ERROR response shape.
//
// # Quick Start
//
//	type DiscoverRequest struct {
//	    Genres []int  `validate:"required,min=1,max=10,dive,gt=0"`
//	    Page   int    `validate:"min=1,max=500"`
//	    Sort   string `validate:"omitempty,oneof=added rating title release"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: field must not be empty
//   - min=n / max=n: length bounds in characters
//   - oneof=a b c: must be one of the listed values
//
// Numeric validations:
//   - min=n / max=n: value bounds (page 1-500, limits, positive ids)
//   - gte / lte / gt / lt: explicit comparisons
//
// # Error Shape
//
// A single failed field produces:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Page must be at most 500",
//	    "details": {"field": "Page", "tag": "max", "value": 9999}
//	}
//
// Multiple failures are combined, with per-field entries under details.fields.
//
// # Thread Safety
//
// The singleton validator is initialized once and is safe for concurrent use.
// It caches struct reflection info, so repeated validations of the same
// request types are cheap.
package validation
