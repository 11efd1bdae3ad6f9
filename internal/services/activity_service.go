package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"peerlend/internal/models"
	"peerlend/internal/repository"
)

// ActivityService buckets the transaction ledger for the profile chart.
type ActivityService struct {
	repo *repository.Repository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo *repository.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Period windows accepted by the ledger listing.
const (
	PeriodDay   = "1 day"
	PeriodWeek  = "1 week"
	PeriodMonth = "1 month"
	PeriodMax   = "max"
)

// PeriodStart translates a period name into the window's start time; nil
// means the full history.
func PeriodStart(period string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch period {
	case PeriodDay:
		since = now.AddDate(0, 0, -1)
	case PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case PeriodMonth:
		since = now.AddDate(0, -1, 0)
	case PeriodMax, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}
	return &since, nil
}

// Activity lists the user's ledger for the period and buckets it at the
// requested granularity.
func (s *ActivityService) Activity(ctx context.Context, userAddress, period string, granularity models.ActivityGranularity) ([]models.ChartPoint, error) {
	since, err := PeriodStart(period, time.Now())
	if err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListTransactions(ctx, userAddress, since)
	if err != nil {
		return nil, err
	}

	return BucketActivity(transactions, granularity), nil
}

// BucketActivity groups transactions into day/week/month buckets with one
// counter per chartable type. Transactions of unknown type are dropped, not
// an error. Output is sorted ascending by bucket key; the key formats are
// zero-padded so lexicographic order is chronological.
func BucketActivity(transactions []models.Transaction, granularity models.ActivityGranularity) []models.ChartPoint {
	index := make(map[string]int)
	var points []models.ChartPoint

	for _, tx := range transactions {
		switch tx.Type {
		case models.TxTypeDeposit, models.TxTypeWithdraw, models.TxTypeBorrow, models.TxTypeLend:
		default:
			// Not chartable; dropped rather than failing the aggregation.
			continue
		}

		key := bucketKey(tx.CreatedAt, granularity)
		idx, ok := index[key]
		if !ok {
			idx = len(points)
			index[key] = idx
			points = append(points, models.ChartPoint{Bucket: key})
		}

		switch tx.Type {
		case models.TxTypeDeposit:
			points[idx].Deposit++
		case models.TxTypeWithdraw:
			points[idx].Withdraw++
		case models.TxTypeBorrow:
			points[idx].Borrow++
		case models.TxTypeLend:
			points[idx].Lend++
		}
	}

	sort.Slice(points, func(a, b int) bool {
		return points[a].Bucket < points[b].Bucket
	})
	return points
}

func bucketKey(t time.Time, granularity models.ActivityGranularity) string {
	t = t.UTC()
	switch granularity {
	case models.GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
