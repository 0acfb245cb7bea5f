package reporting

import "context"

// MovieRevenue は映画ごとの見込み売上
type MovieRevenue struct {
	MovieTitle  string
	Revenue     float64
	TicketsSold int
}

// Repository は集計クエリのインターフェース
type Repository interface {
	// PotentialRevenue は支払い済みの CONFIRMED 予約を映画タイトルごとに集計し、売上の降順で返す
	PotentialRevenue(ctx context.Context) ([]*MovieRevenue, error)
}
