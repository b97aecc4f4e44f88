package tracing

import (
	"time"

	"activity-marketplace/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey  = "sentry:span"
	gormStartKey = "sentry:start"
)

// GormTracingPlugin 为每条 SQL 创建子 span，只上报超过阈值的慢查询
type GormTracingPlugin struct {
	slowThreshold time.Duration
}

func NewGormTracingPlugin() *GormTracingPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormTracingPlugin{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("sentry:before_create", p.before("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("sentry:before_query", p.before("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("sentry:before_update", p.before("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("sentry:before_delete", p.before("delete")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("sentry:before_row", p.before("row")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("sentry:before_raw", p.before("raw")); err != nil {
		return err
	}

	if err := cb.Create().After("gorm:create").Register("sentry:after_create", p.after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("sentry:after_query", p.after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("sentry:after_update", p.after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("sentry:after_delete", p.after); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("sentry:after_row", p.after); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("sentry:after_raw", p.after)
}

func (p *GormTracingPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(gormStartKey, time.Now())
		span := StartChild(db.Statement.Context, "db.sql."+op, op)
		if span == nil {
			return
		}
		span.SetData("db.system", db.Dialector.Name())
		span.SetData("db.operation", op)
		if db.Statement.Table != "" {
			span.SetData("db.sql.table", db.Statement.Table)
		}
		db.InstanceSet(gormSpanKey, span)
	}
}

func (p *GormTracingPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(*sentry.Span)
	if !ok {
		return
	}

	var elapsed time.Duration
	if start, ok := db.InstanceGet(gormStartKey); ok {
		elapsed = time.Since(start.(time.Time))
	}
	// SQL 只记录模板，参数不上报
	span.Description = db.Statement.SQL.String()
	span.SetData("db.rows_affected", db.Statement.RowsAffected)

	err := db.Error
	if err == gorm.ErrRecordNotFound {
		err = nil
	}
	finish(span, elapsed >= p.slowThreshold, err)
}
