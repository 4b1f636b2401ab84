package domain

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"k6lint.dev/pkg/k6lint/internal/adapter"
	"k6lint.dev/pkg/k6lint/internal/controller"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

type mockSourceFS struct {
	mock.Mock
}

func (f *mockSourceFS) Get(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error) {
	args := f.Called(ctx, paths, exclude)
	sources, _ := args.Get(0).([]m.Source)

	return sources, args.Error(1)
}

func (f *mockSourceFS) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	return f.Called(root, recursive, fn).Error(0)
}

func (f *mockSourceFS) ReadFile(path m.Path) ([]byte, error) {
	args := f.Called(path)
	data, _ := args.Get(0).([]byte)

	return data, args.Error(1)
}

func (f *mockSourceFS) HashFile(path m.Path) (string, error) {
	args := f.Called(path)
	return args.String(0), args.Error(1)
}

func (f *mockSourceFS) FileInfo(path m.Path) (os.FileInfo, error) {
	args := f.Called(path)
	info, _ := args.Get(0).(os.FileInfo)

	return info, args.Error(1)
}

type mockScriptWatcher struct {
	mock.Mock
}

// Watch replays the configured change batches synchronously.
func (w *mockScriptWatcher) Watch(ctx context.Context, paths []m.Path, onChange func([]m.Path)) error {
	args := w.Called(ctx, paths)

	batches, _ := args.Get(0).([][]m.Path)
	for _, changed := range batches {
		onChange(changed)
	}

	return args.Error(1)
}

type mockReportStore struct {
	mock.Mock
}

func (s *mockReportStore) SaveReport(dir m.Path, report m.Report, formats ...m.ReportFormat) error {
	return s.Called(dir, report, formats).Error(0)
}

func (s *mockReportStore) LoadReport(dir m.Path) (m.Report, error) {
	args := s.Called(dir)
	report, _ := args.Get(0).(m.Report)

	return report, args.Error(1)
}

type mockUI struct {
	mock.Mock
}

func (u *mockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	return u.Called(ctx).Error(0)
}

func (u *mockUI) Close(ctx context.Context) {
	u.Called(ctx)
}

func (u *mockUI) Wait(ctx context.Context) {
	u.Called(ctx)
}

func (u *mockUI) DisplayScanInfo(ctx context.Context, files int, threads int) {
	u.Called(ctx, files, threads)
}

func (u *mockUI) DisplayReport(ctx context.Context, report m.Report) error {
	return u.Called(ctx, report).Error(0)
}

func (u *mockUI) DisplayDiff(ctx context.Context, diff string) error {
	return u.Called(ctx, diff).Error(0)
}

func (u *mockUI) DisplayInspection(ctx context.Context, path m.Path, dump string) error {
	return u.Called(ctx, path, dump).Error(0)
}

func (u *mockUI) DisplayRules(ctx context.Context, rules []m.RuleInfo) error {
	return u.Called(ctx, rules).Error(0)
}

// newQuietUI accepts every lifecycle call.
func newQuietUI() *mockUI {
	ui := &mockUI{}
	ui.On("Start", mock.Anything).Return(nil)
	ui.On("Close", mock.Anything).Return()
	ui.On("Wait", mock.Anything).Return()
	ui.On("DisplayScanInfo", mock.Anything, mock.Anything, mock.Anything).Return()

	return ui
}
