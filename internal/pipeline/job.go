package pipeline

import (
	"strings"

	"marketscan/internal/adapter/enum"
	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
)

// Job is one (exchange, market) collection unit.
type Job struct {
	Exchange enum.Exchange
	Market   enum.MarketType
}

func (j Job) String() string {
	return strings.ToLower(j.Exchange.String()) + ":" + j.Market.String()
}

// AllJobs returns every exchange and market pair, exchange major.
func AllJobs() []Job {
	jobs := make([]Job, 0, 9)
	for _, e := range enum.Exchanges() {
		for _, m := range enum.MarketTypes() {
			jobs = append(jobs, Job{Exchange: e, Market: m})
		}
	}
	return jobs
}

// ParseJobs parses a comma separated exchange:market list. Empty or "all" selects every job.
func ParseJobs(s string) ([]Job, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || strings.EqualFold(s, "all") {
		return AllJobs(), nil
	}

	var jobs []Job
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			continue
		}

		exchangeText, marketText, ok := strings.Cut(item, ":")
		if !ok {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "job: %s", item)
		}

		exchange, ok := enum.ParseExchange(exchangeText)
		if !ok {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "job exchange: %s", item)
		}

		if strings.EqualFold(strings.TrimSpace(marketText), "all") {
			for _, m := range enum.MarketTypes() {
				jobs = append(jobs, Job{Exchange: exchange, Market: m})
			}
			continue
		}

		market, ok := enum.ParseMarketType(marketText)
		if !ok {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "job market: %s", item)
		}

		jobs = append(jobs, Job{Exchange: exchange, Market: market})
	}

	if len(jobs) == 0 {
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "jobs: %s", s)
	}

	return jobs, nil
}
