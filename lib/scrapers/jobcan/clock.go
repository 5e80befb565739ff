package jobcan

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ClockRequest struct {
	// attendance group to record against
	GroupId int
	// alters how the portal classifies the recorded time
	NightShift bool
	// free-form note attached to the record, usually empty
	Note string
}

type ClockResult struct {
	Result        int              `json:"result"`
	State         int              `json:"state"`
	CurrentStatus AttendanceStatus `json:"current_status"`
}

const clockResultOk = 1

// Clock submits the clock in/out action. It requires the adit token
// stored by a successful Login.
func (c *Client) Clock(ctx context.Context, req ClockRequest) (ClockResult, error) {
	ctx, span := tracer.Start(ctx, "client:Clock")
	defer span.End()

	span.SetAttributes(
		attribute.Int("group_id", req.GroupId),
		attribute.Bool("night_shift", req.NightShift),
	)

	token, err := c.Store.Get(ctx, KeyAditToken)
	if err != nil {
		return ClockResult{}, err
	}
	if token == "" {
		err := fmt.Errorf("no adit token stored, log in first")
		span.SetStatus(codes.Error, err.Error())
		return ClockResult{}, err
	}

	isYakin := "0"
	if req.NightShift {
		isYakin = "1"
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"is_yakin":      isYakin,
			"adit_item":     "DEF",
			"notice":        req.Note,
			"token":         token,
			"adit_group_id": strconv.Itoa(req.GroupId),
		}).
		Post(c.aditUrl())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make clock request")
		return ClockResult{}, err
	}

	var result ClockResult
	err = json.Unmarshal(res.Body(), &result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode clock response")
		return ClockResult{}, fmt.Errorf("decode clock response: %w", err)
	}

	if result.Result != clockResultOk {
		err := &UnexpectedServerStateError{
			Result: result.Result,
			State:  result.State,
		}
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	return result, nil
}
