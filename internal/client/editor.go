package client

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// KindActivityImage 活动图片在对象存储中的目录
const KindActivityImage = "activity_images"

type EditorStore interface {
	GetMyActivity(ctx context.Context, id string) (*Activity, error)
	CreateActivity(ctx context.Context, in ActivityInput) (*Activity, error)
	UpdateActivity(ctx context.Context, id string, in ActivityInput) (*Activity, error)
	UploadImage(ctx context.Context, kind, filename string, r io.Reader) (string, error)
}

// ActivityForm 编辑页表单
type ActivityForm struct {
	Title       string
	Description string
	Location    string
	Category    string
	AgeRange    string
	Price       decimal.Decimal
	IsPremium   bool
	ImageURL    string
}

// Validate 必填项去掉空白后不能为空
func (f ActivityForm) Validate() error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"description", f.Description},
		{"location", f.Location},
		{"category", f.Category},
		{"age_range", f.AgeRange},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func (f ActivityForm) input() ActivityInput {
	return ActivityInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Location:    strings.TrimSpace(f.Location),
		Category:    f.Category,
		AgeRange:    f.AgeRange,
		Price:       f.Price,
		ImageURL:    f.ImageURL,
		IsPremium:   f.IsPremium,
		Status:      StatusDraft,
	}
}

func formOf(a *Activity) ActivityForm {
	return ActivityForm{
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Category:    a.Category,
		AgeRange:    a.AgeRange,
		Price:       a.Price,
		IsPremium:   a.IsPremium,
		ImageURL:    a.ImageURL,
	}
}

// Image 待上传的图片
type Image struct {
	Filename string
	Body     io.Reader
}

type EditorState struct {
	Form    ActivityForm
	Loading bool
	// NotFound 编辑的活动不存在或不属于当前用户
	NotFound bool
	Err      error
}

// ActivityEditor 创建 (activityID 为空) 或编辑活动
type ActivityEditor struct {
	session    SessionView
	store      EditorStore
	notifier   Notifier
	activityID string

	mu    sync.Mutex
	state EditorState
	gen   uint64
}

func NewActivityEditor(session SessionView, store EditorStore, activityID string, notifier Notifier) *ActivityEditor {
	return &ActivityEditor{
		session:    session,
		store:      store,
		activityID: activityID,
		notifier:   orDiscard(notifier),
	}
}

func (e *ActivityEditor) Guard() Route {
	return GuardSignedIn(e.session.Snapshot())
}

// Load 创建模式给出空表单，编辑模式读取自己的活动
func (e *ActivityEditor) Load(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	if e.activityID == "" {
		e.state = EditorState{}
		e.mu.Unlock()
		return nil
	}
	e.state.Loading = true
	e.mu.Unlock()

	act, err := e.store.GetMyActivity(ctx, e.activityID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	e.state.Loading = false
	if err != nil {
		e.state.Err = err
		e.state.NotFound = IsNotFound(err)
		return err
	}
	e.state = EditorState{Form: formOf(act)}
	return nil
}

// Retry 页面级错误后重新加载
func (e *ActivityEditor) Retry(ctx context.Context) error {
	return e.Load(ctx)
}

// Submit 校验失败不发请求；有图片时先上传再保存
func (e *ActivityEditor) Submit(ctx context.Context, form ActivityForm, image *Image) (*Activity, error) {
	if e.session.Snapshot().Identity == nil {
		return nil, ErrNotSignedIn
	}
	if err := form.Validate(); err != nil {
		e.notifier.Notify(invalid("请填写必填项", ReasonMissingFields, err))
		return nil, err
	}

	if image != nil {
		url, err := e.store.UploadImage(ctx, KindActivityImage, image.Filename, image.Body)
		if err != nil {
			e.notifier.Notify(failure("图片上传失败", err))
			return nil, err
		}
		form.ImageURL = url
	}

	var (
		saved *Activity
		err   error
	)
	if e.activityID == "" {
		saved, err = e.store.CreateActivity(ctx, form.input())
	} else {
		saved, err = e.store.UpdateActivity(ctx, e.activityID, form.input())
	}
	if err != nil {
		e.notifier.Notify(failure("保存活动失败", err))
		return nil, err
	}

	e.mu.Lock()
	e.state = EditorState{Form: formOf(saved)}
	e.mu.Unlock()
	e.notifier.Notify(success("活动已保存"))
	return saved, nil
}

func (e *ActivityEditor) Snapshot() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
