// Package domain models the blood demand prediction form.
//
// # Fields
//
// A prediction request is a flat JSON object of twelve string values, sent in
// this order when rendered:
//
//	district, bloodGroup, total_donations, available_units,
//	is_festival_week, is_holiday, is_monsoon, population_density,
//	hospital_count, accident_rate, avg_temperature, donor_registration_trend
//
// The order and labels live in fields.yaml, embedded at build time. Labels
// default to the name with underscores replaced by spaces.
//
// Every value is a string on the wire, numbers included. The prediction
// service converts them itself: district and bloodGroup are matched case
// insensitively against its known categories (unknown values become -1),
// the flags is_festival_week, is_holiday and is_monsoon are 0 or 1.
//
// # State
//
// [State] is an immutable value. [State.With] returns a new state with a
// single field replaced. A request is only issued when [State.Complete]
// reports every field non-empty.
//
// # Results
//
// A successful response carries a numeric predicted_demand. It is kept as a
// [Result] and displayed with two decimals, "42.50 units".
//
// # Failures
//
// Predictor errors fall into three categories, see [Classify]:
//
//	server_error  the service responded with a non-2xx status (or an unusable body)
//	no_response   the request went out but nothing came back
//	setup_error   the request could not be built
//
// Each category is logged differently; the user sees one generic alert.
package domain
