package pagination

import (
	"fmt"
	"regexp"
)

// Kind はフィールドの値の型
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// Field はクエリ可能なフィールドの定義
// Name は API 上の名前、Column は SQL 上の列（結合時は "s.start_at" のように修飾する）
type Field struct {
	Name       string
	Column     string
	Kind       Kind
	Sortable   bool
	Filterable bool
}

// Schema はエンティティごとに静的に宣言するソート・フィルタ可能フィールドの集合
type Schema struct {
	fields      map[string]Field
	defaultSort string
}

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// NewSchema はスキーマを構築し、定義を検証する
// defaultSort は sort_by 未指定時に使う ORDER BY 句（例: "s.start_at ASC"）
func NewSchema(defaultSort string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: フィールドが定義されていません", ErrInvalidSchema)
	}
	s := &Schema{fields: make(map[string]Field, len(fields)), defaultSort: defaultSort}
	for _, f := range fields {
		if !identRe.MatchString(f.Name) || !identRe.MatchString(f.Column) {
			return nil, fmt.Errorf("%w: 不正な識別子 %q/%q", ErrInvalidSchema, f.Name, f.Column)
		}
		if f.Kind < KindString || f.Kind > KindTime {
			return nil, fmt.Errorf("%w: %s の型が不正です", ErrInvalidSchema, f.Name)
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s が重複しています", ErrInvalidSchema, f.Name)
		}
		s.fields[f.Name] = f
	}
	return s, nil
}

// MustSchema は NewSchema の panic 版。パッケージ初期化時の宣言で使う
func MustSchema(defaultSort string, fields ...Field) *Schema {
	s, err := NewSchema(defaultSort, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Field は名前からフィールド定義を返す
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}
