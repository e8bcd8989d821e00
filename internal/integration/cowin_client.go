// Package integration handles external service interactions
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// DefaultCowinURL is the public calendarByPin endpoint
const DefaultCowinURL = "https://cdn-api.co-vin.in/api/v2/appointment/sessions/calendarByPin"

// CowinClient queries the availability service one date at a time
type CowinClient struct {
	sourceURL  string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCowinClient creates a new availability client
func NewCowinClient(sourceURL, userAgent string, logger *zap.Logger) *CowinClient {
	if sourceURL == "" {
		sourceURL = DefaultCowinURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CowinClient{
		sourceURL:  sourceURL,
		userAgent:  userAgent,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type calendarResponse struct {
	Centers []center `json:"centers"`
}

type center struct {
	Name         string     `json:"name"`
	StateName    string     `json:"state_name"`
	DistrictName string     `json:"district_name"`
	BlockName    string     `json:"block_name"`
	Pincode      flexString `json:"pincode"`
	FeeType      string     `json:"fee_type"`
	Sessions     []session  `json:"sessions"`
}

type session struct {
	Date              string   `json:"date"`
	AvailableCapacity *float64 `json:"available_capacity"`
	MinAgeLimit       *float64 `json:"min_age_limit"`
}

// flexString accepts both JSON strings and numbers; the service sends pincode as a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pincode is neither string nor number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// FetchDate issues one query for the given pincode and date.
// It never fails the caller: problems are reported through the result status.
func (c *CowinClient) FetchDate(ctx context.Context, pincode string, date time.Time) entities.DateResult {
	result := entities.DateResult{Date: date}
	dateStr := date.Format(entities.DateLayout)
	log := c.logger.With(zap.String("pincode", pincode), zap.String("date", dateStr))

	query := url.Values{}
	query.Set("pincode", pincode)
	query.Set("date", dateStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL+"?"+query.Encode(), nil)
	if err != nil {
		result.Status = entities.DateError
		result.Err = fmt.Errorf("failed to build request: %w", err)
		return result
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug("Sending availability request")
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Error fetching availability", zap.Error(err))
		result.Status = entities.DateError
		result.Err = fmt.Errorf("failed to query availability service: %w", err)
		return result
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Warn("Received unexpected status code", zap.Int("status", res.StatusCode))
		result.Status = entities.DateError
		result.Err = fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
		return result
	}

	var body calendarResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.Warn("Error decoding availability response", zap.Error(err))
		result.Status = entities.DateError
		result.Err = fmt.Errorf("failed to decode availability response: %w", err)
		return result
	}

	result.Records = explodeSessions(body.Centers, log)
	if len(result.Records) == 0 {
		result.Status = entities.DateNoData
		log.Debug("No data found")
		return result
	}

	result.Status = entities.DateRows
	log.Debug("Parsed availability", zap.Int("centers", len(body.Centers)), zap.Int("rows", len(result.Records)))
	return result
}

// FetchWindow queries every date in [start, start+days) strictly one after another
func (c *CowinClient) FetchWindow(ctx context.Context, query entities.Query, start time.Time) *entities.FetchReport {
	report := &entities.FetchReport{}
	for _, date := range WindowDates(start, query.Days) {
		if ctx.Err() != nil {
			report.Results = append(report.Results, entities.DateResult{
				Date:   date,
				Status: entities.DateError,
				Err:    ctx.Err(),
			})
			continue
		}
		report.Results = append(report.Results, c.FetchDate(ctx, query.Pincode, date))
	}

	counts := report.Counts()
	c.logger.Info("Fetched availability window",
		zap.String("pincode", query.Pincode),
		zap.Int("days", query.Days),
		zap.Int("dates_with_rows", counts.Rows),
		zap.Int("dates_without_data", counts.NoData),
		zap.Int("dates_failed", counts.Errors),
	)
	return report
}

// WindowDates lists the calendar dates starting at start's day
func WindowDates(start time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	base := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, base.AddDate(0, 0, i))
	}
	return dates
}

// explodeSessions turns each center into one row per session. Sessions without a
// usable date or capacity are dropped.
func explodeSessions(centers []center, log *zap.Logger) []entities.AvailabilityRecord {
	var rows []entities.AvailabilityRecord
	skipped := 0
	for _, ctr := range centers {
		for _, s := range ctr.Sessions {
			date, err := time.ParseInLocation(entities.DateLayout, s.Date, time.UTC)
			if err != nil || s.AvailableCapacity == nil {
				skipped++
				continue
			}
			minAge := 0
			if s.MinAgeLimit != nil {
				minAge = int(*s.MinAgeLimit)
			}
			rows = append(rows, entities.AvailabilityRecord{
				Date:              date,
				AvailableCapacity: int(*s.AvailableCapacity),
				MinAgeLimit:       minAge,
				Pincode:           string(ctr.Pincode),
				Name:              ctr.Name,
				StateName:         ctr.StateName,
				DistrictName:      ctr.DistrictName,
				BlockName:         ctr.BlockName,
				FeeType:           ctr.FeeType,
			})
		}
	}
	if skipped > 0 {
		log.Debug("Skipped sessions without date or capacity", zap.Int("skipped", skipped))
	}
	return rows
}
