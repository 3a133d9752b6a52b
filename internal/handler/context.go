package handler

type ContextKey string

var (
	SubCtxKey    ContextKey = "sub"
	WorkerCtx    ContextKey = "worker"
	WorkTypeCtx  ContextKey = "workType"
	WorkEntryCtx ContextKey = "workEntry"
)
