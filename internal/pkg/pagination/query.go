package pagination

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSize は1ページの最大件数
const MaxSize = 100

// Query はリストAPIのクエリパラメータ
type Query struct {
	Page     int    `query:"page"`
	Size     int    `query:"size"`
	SortBy   string `query:"sort_by"`
	FilterBy string `query:"filter_by"`
	Skip     bool   `query:"skip"`
}

// Validate はページ指定を検証する
// Skip=false のときは page と size が必須
func (q Query) Validate() error {
	if q.Skip {
		return nil
	}
	if q.Page < 1 || q.Size < 1 {
		return fmt.Errorf("%w: page と size は1以上で指定してください", ErrInvalidQuery)
	}
	if q.Size > MaxSize {
		return fmt.Errorf("%w: size は%d以下で指定してください", ErrInvalidQuery, MaxSize)
	}
	return nil
}

// Offset はページ番号から OFFSET を計算する
func (q Query) Offset() int {
	if q.Skip || q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Size
}

// Page は一覧レスポンスの共通エンベロープ
type Page[T any] struct {
	Result       []T `json:"result"`
	TotalRecords int `json:"total_records"`
	Size         int `json:"size"`
	Page         int `json:"page"`
}

// NewPage はクエリと検索結果からエンベロープを作成する
func NewPage[T any](q Query, result []T, total int) *Page[T] {
	if result == nil {
		result = []T{}
	}
	p := &Page[T]{Result: result, TotalRecords: total, Size: q.Size, Page: q.Page}
	if q.Skip {
		p.Size = len(result)
		p.Page = 1
	}
	return p
}

// Clause は Schema.Build が返す SQL 断片
// 条件は "?" プレースホルダで組み立てるので、実行前に sqlx の Rebind を通すこと
type Clause struct {
	conds  []string
	args   []any
	order  string
	limit  int
	offset int
	paged  bool
}

// And は固定条件を追加する
func (c *Clause) And(cond string, args ...any) *Clause {
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
	return c
}

// Where は " WHERE ..." を返す。条件がなければ空文字
func (c *Clause) Where() string {
	if len(c.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.conds, " AND ")
}

// Args はプレースホルダに対応する引数
func (c *Clause) Args() []any {
	return c.args
}

// OrderLimit は " ORDER BY ... LIMIT ... OFFSET ..." を返す
func (c *Clause) OrderLimit() string {
	var b strings.Builder
	if c.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(c.order)
	}
	if c.paged {
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", c.limit, c.offset)
	}
	return b.String()
}

// Build はクエリをスキーマで検証し、SQL 断片に変換する
func (s *Schema) Build(q Query) (*Clause, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	c := &Clause{order: s.defaultSort, paged: !q.Skip, limit: q.Size, offset: q.Offset()}

	if strings.TrimSpace(q.SortBy) != "" {
		order, err := s.parseSort(q.SortBy)
		if err != nil {
			return nil, err
		}
		c.order = order
	}

	if strings.TrimSpace(q.FilterBy) != "" {
		for _, expr := range strings.Split(q.FilterBy, ",") {
			expr = strings.TrimSpace(expr)
			if expr == "" {
				continue
			}
			cond, arg, err := s.parseFilter(expr)
			if err != nil {
				return nil, err
			}
			c.And(cond, arg)
		}
	}
	return c, nil
}

func (s *Schema) parseSort(raw string) (string, error) {
	var parts []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(name, "-") {
			dir = "DESC"
			name = name[1:]
		}
		f, ok := s.Field(name)
		if !ok || !f.Sortable {
			return "", fmt.Errorf("%w: %s でソートできません", ErrInvalidQuery, name)
		}
		parts = append(parts, f.Column+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

// likeEscaper は部分一致の入力に含まれる LIKE のメタ文字をエスケープする
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// 2文字の演算子を先に判定する
var operators = []string{">=", "<=", "!=", ">", "<", "=", "~"}

func (s *Schema) parseFilter(expr string) (string, any, error) {
	i := 0
	for i < len(expr) && isIdentByte(expr[i]) {
		i++
	}
	name, rest := expr[:i], expr[i:]

	var op string
	for _, candidate := range operators {
		if strings.HasPrefix(rest, candidate) {
			op = candidate
			break
		}
	}
	if name == "" || op == "" {
		return "", nil, fmt.Errorf("%w: フィルタ %q を解釈できません", ErrInvalidQuery, expr)
	}
	raw := strings.TrimSpace(rest[len(op):])

	f, ok := s.Field(name)
	if !ok || !f.Filterable {
		return "", nil, fmt.Errorf("%w: %s でフィルタできません", ErrInvalidQuery, name)
	}

	if op == "~" {
		if f.Kind != KindString {
			return "", nil, fmt.Errorf("%w: %s は部分一致検索できません", ErrInvalidQuery, name)
		}
		return f.Column + ` ILIKE ? ESCAPE '\'`, "%" + likeEscaper.Replace(raw) + "%", nil
	}

	val, err := parseValue(f.Kind, raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s の値 %q が不正です", ErrInvalidQuery, name, raw)
	}
	if f.Kind == KindBool && op != "=" && op != "!=" {
		return "", nil, fmt.Errorf("%w: %s に %s は使えません", ErrInvalidQuery, name, op)
	}
	if op == "!=" {
		op = "<>"
	}
	return f.Column + " " + op + " ?", val, nil
}

func parseValue(kind Kind, raw string) (any, error) {
	switch kind {
	case KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", raw)
	default:
		return raw, nil
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
