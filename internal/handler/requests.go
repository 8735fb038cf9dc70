package handler

import (
	"bytes"
	"encoding/json"

	"github.com/deppfellow/item-api/internal/middleware"
	"github.com/deppfellow/item-api/internal/model"
	"github.com/deppfellow/item-api/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// emptyRequest is used by endpoints without input. Query strings and
// bodies are ignored.
type emptyRequest struct{}

func (r *emptyRequest) Bind(c echo.Context) error {
	return nil
}

func (r *emptyRequest) Validate(v *validation.Validator) error {
	return nil
}

type readItemRequest struct {
	ItemID    int64   `param:"item_id" validate:"item_id"`
	Q         *string `query:"q" validate:"omitnil,query"`
	SortOrder string  `query:"sort_order"`
}

func (r *readItemRequest) Bind(c echo.Context) error {
	p := validation.NewParams(c)
	r.ItemID = p.PathInt64("item_id")
	r.Q = p.QueryString("q")
	if sortOrder := p.QueryString("sort_order"); sortOrder != nil {
		r.SortOrder = *sortOrder
	}
	return p.Err()
}

func (r *readItemRequest) Validate(v *validation.Validator) error {
	return v.Struct(r).Err()
}

type updateItemRequest struct {
	ItemID int64      `param:"item_id" validate:"item_id"`
	Q      *string    `query:"q" validate:"omitnil,query"`
	Item   model.Item `json:"-" validate:"-"`
}

func (r *updateItemRequest) Bind(c echo.Context) error {
	p := validation.NewParams(c)
	r.ItemID = p.PathInt64("item_id")
	r.Q = p.QueryString("q")
	if err := p.Body(&r.Item, true); err != nil {
		return err
	}
	return p.Err()
}

// Validate checks the path and query inputs and the item body in one
// pass, so every violation is reported together.
func (r *updateItemRequest) Validate(v *validation.Validator) error {
	violations := v.Struct(r)
	violations = append(violations, v.Struct(r.Item)...)
	return violations.Err()
}

type filterItemsRequest struct {
	model.ItemFilter
}

// Bind only coerces types; every criterion is optional.
func (r *filterItemsRequest) Bind(c echo.Context) error {
	p := validation.NewParams(c)
	r.MinPrice = p.QueryDecimal("min_price")
	r.MaxPrice = p.QueryDecimal("max_price")
	r.TaxIncluded = p.QueryBool("tax_included")
	r.Tags = p.QueryStrings("tags")
	return p.Err()
}

func (r *filterItemsRequest) Validate(v *validation.Validator) error {
	return nil
}

type createWithFieldsRequest struct {
	model.ItemWithImportance
}

func (r *createWithFieldsRequest) Bind(c echo.Context) error {
	return validation.DecodeBody(c, &r.ItemWithImportance, true)
}

func (r *createWithFieldsRequest) Validate(v *validation.Validator) error {
	violations := v.Struct(r.ItemWithImportance)
	if r.Importance == nil && v.Schema().RequireImportance {
		violations.Add("importance", "required", nil, "is required")
	}
	return violations.Err()
}

type createOfferRequest struct {
	model.Offer
}

func (r *createOfferRequest) Bind(c echo.Context) error {
	return validation.DecodeBody(c, &r.Offer, true)
}

func (r *createOfferRequest) Validate(v *validation.Validator) error {
	return v.Struct(r.Offer).Err()
}

type createUserRequest struct {
	model.User
}

func (r *createUserRequest) Bind(c echo.Context) error {
	return validation.DecodeBody(c, &r.User, true)
}

func (r *createUserRequest) Validate(v *validation.Validator) error {
	return v.Struct(r.User).Err()
}

// extraDataBody keeps every field raw so each one is coerced, and
// reported, on its own.
type extraDataBody struct {
	StartTime   json.RawMessage `json:"start_time"`
	EndTime     json.RawMessage `json:"end_time"`
	RepeatEvery json.RawMessage `json:"repeat_every"`
	ProcessID   json.RawMessage `json:"process_id"`
}

type extraDataRequest struct {
	model.ExtraData
}

func (r *extraDataRequest) Bind(c echo.Context) error {
	var body extraDataBody
	if err := validation.DecodeBody(c, &body, true); err != nil {
		return err
	}

	var violations validation.Violations

	start, startOK := parseTimestampField(&violations, "start_time", body.StartTime)
	end, endOK := parseTimestampField(&violations, "end_time", body.EndTime)
	if startOK && endOK && start.TimeOfDay != end.TimeOfDay {
		violations.Add("end_time", "type", rawValue(body.EndTime), "must be the same kind of time as start_time")
	}

	if isAbsent(body.RepeatEvery) {
		violations.Add("repeat_every", "required", nil, "is required")
	} else if repeatEvery, err := model.ParseDuration(body.RepeatEvery); err != nil {
		violations.Add("repeat_every", "type", rawValue(body.RepeatEvery), "must be a number of seconds or a duration")
	} else {
		r.RepeatEvery = repeatEvery
	}

	if text, ok := stringField(&violations, "process_id", body.ProcessID); ok {
		processID, err := uuid.Parse(text)
		if err != nil {
			violations.Add("process_id", "type", text, "must be a valid UUID")
		} else {
			r.ProcessID = processID
		}
	}

	r.StartTime = start
	r.EndTime = end

	return violations.Err()
}

func (r *extraDataRequest) Validate(v *validation.Validator) error {
	return nil
}

func parseTimestampField(violations *validation.Violations, field string, raw json.RawMessage) (model.Timestamp, bool) {
	text, ok := stringField(violations, field, raw)
	if !ok {
		return model.Timestamp{}, false
	}
	ts, err := model.ParseTimestamp(text)
	if err != nil {
		violations.Add(field, "type", text, "must be an RFC 3339 date-time or a time of day")
		return model.Timestamp{}, false
	}
	return ts, true
}

// stringField reads a required JSON string.
func stringField(violations *validation.Violations, field string, raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		violations.Add(field, "required", nil, "is required")
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		violations.Add(field, "type", rawValue(raw), "must be a string")
		return "", false
	}
	return text, true
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// rawValue decodes raw for error reporting, falling back to its text.
func rawValue(raw json.RawMessage) any {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}
	return value
}

type sessionRequest struct {
	SessionID *string `cookie:"session_id" validate:"required"`
}

func (r *sessionRequest) Bind(c echo.Context) error {
	r.SessionID = validation.NewParams(c).Cookie(middleware.SessionCookieName)
	return nil
}

func (r *sessionRequest) Validate(v *validation.Validator) error {
	return v.Struct(r).Err()
}
