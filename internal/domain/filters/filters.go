package filters

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Filters struct {
	Page     int `schema:"page"`
	PageSize int `schema:"page_size"`
}

func (f *Filters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}
