package jobcan

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"jobcan-assist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// AttendanceStatus is the server's word on the current work state. It
// is never cached beyond a single read, unknown values pass through
// unchanged.
type AttendanceStatus string

const (
	StatusResting         AttendanceStatus = "resting"
	StatusWorking         AttendanceStatus = "working"
	StatusHavingBreakfast AttendanceStatus = "having_breakfast"
)

type StatusReport struct {
	AditGroupId   int
	CurrentStatus AttendanceStatus
}

var aditParamsRegex = regexp.MustCompile(`(?m)load_adit_params *\( *(\{.+?\}) *\)`)

// the employee page embeds the clock parameters in a script call, the
// argument is decoded as a plain json literal, it is never executed
func getAditParams(doc *goquery.Document) (StatusReport, error) {
	for _, script := range doc.Find("script").Nodes {
		text := htmlutil.GetText(script)
		groups := aditParamsRegex.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}

		var params struct {
			AditGroupId   int    `json:"adit_group_id"`
			CurrentStatus string `json:"current_status"`
		}
		err := json.Unmarshal([]byte(groups[1]), &params)
		if err != nil {
			return StatusReport{}, fmt.Errorf("decode adit params: %w", err)
		}
		return StatusReport{
			AditGroupId:   params.AditGroupId,
			CurrentStatus: AttendanceStatus(params.CurrentStatus),
		}, nil
	}

	return StatusReport{}, ErrNoStatusBlock
}

// Status fetches the employee landing page and reads the default adit
// group id and the current attendance status out of its embedded
// payload.
func (c *Client) Status(ctx context.Context) (StatusReport, error) {
	ctx, span := tracer.Start(ctx, "client:Status")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.employeePageUrl())
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch employee page")
		return StatusReport{}, err
	}
	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse employee page")
		return StatusReport{}, err
	}

	report, err := getAditParams(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return StatusReport{}, err
	}
	return report, nil
}
