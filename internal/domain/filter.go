package domain

// ListFilter 对应后台列表页的筛选和搜索
type ListFilter struct {
	Active *bool
	Search string
}
