package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"k6lint.dev/pkg/k6lint/internal/domain"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

func TestDiffCmd(t *testing.T) {
	mockWorkflow, execute := executeWithMock(t, newDiffCmd, "diff", "base-reports", "pr-reports")

	mockWorkflow.On("Diff", mock.Anything, domain.DiffArgs{
		Old: m.Path("base-reports"),
		New: m.Path("pr-reports"),
	}).Return(nil)

	require.NoError(t, execute())
}

func TestDiffCmd_RequiresTwoDirs(t *testing.T) {
	_, execute := executeWithMock(t, newDiffCmd, "diff", "only-one")

	assert.Error(t, execute())
}

func TestInspectCmd(t *testing.T) {
	mockWorkflow, execute := executeWithMock(t, newInspectCmd, "inspect", "tests/smoke.js")

	mockWorkflow.On("Inspect", mock.Anything, domain.InspectArgs{Path: m.Path("tests/smoke.js")}).Return(nil)

	require.NoError(t, execute())
}

func TestInspectCmd_RequiresScript(t *testing.T) {
	_, execute := executeWithMock(t, newInspectCmd, "inspect")

	assert.Error(t, execute())
}

func TestRulesCmd(t *testing.T) {
	mockWorkflow, execute := executeWithMock(t, newRulesCmd, "rules", "--disable", "tag-uniqueness")

	mockWorkflow.On("ListRules", mock.Anything).Return(nil)

	require.NoError(t, execute())
}
