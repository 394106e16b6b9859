package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"pkgadmin/internal/admin"
	"pkgadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI keeps packages in memory and assigns IDs like the server does.
type fakeAPI struct {
	pkgs   []models.Package
	nextID int64
	failOn string
}

func (f *fakeAPI) List(context.Context) ([]models.Package, error) {
	if f.failOn == "list" {
		return nil, &admin.StatusError{StatusCode: 500}
	}
	out := make([]models.Package, 0, len(f.pkgs))
	for _, p := range f.pkgs {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, pkg models.Package) error {
	if f.failOn == "create" {
		return &admin.StatusError{StatusCode: 500}
	}
	f.nextID++
	id := f.nextID
	pkg.ID = &id
	f.pkgs = append(f.pkgs, pkg.Clone())
	return nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, pkg models.Package) error {
	for i := range f.pkgs {
		if *f.pkgs[i].ID == id {
			pkg.ID = &id
			f.pkgs[i] = pkg.Clone()
			return nil
		}
	}
	return &admin.StatusError{StatusCode: 404}
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	for i := range f.pkgs {
		if *f.pkgs[i].ID == id {
			f.pkgs = append(f.pkgs[:i], f.pkgs[i+1:]...)
			if f.failOn == "reload" {
				f.failOn = "list"
			}
			return nil
		}
	}
	return &admin.StatusError{StatusCode: 404}
}

func newTestCLI(api admin.API, stdin string) (*cli, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &cli{
		api:    api,
		in:     bufio.NewReader(strings.NewReader(stdin)),
		out:    &out,
		errOut: &errOut,
	}, &out, &errOut
}

func TestCLI_AddEditListDelete(t *testing.T) {
	api := &fakeAPI{}
	ctx := context.Background()

	c, out, _ := newTestCLI(api, "")
	require.NoError(t, c.run(ctx, "add", []string{
		"-title", "Starter", "-price", "12.5", "-category", "Hosting",
		"-feature", "SSL", "-feature", "Backups",
	}))
	assert.Contains(t, out.String(), "saved")
	require.Len(t, api.pkgs, 1)
	assert.Equal(t, 12.5, *api.pkgs[0].Price)
	assert.Equal(t, []string{"SSL", "Backups"}, api.pkgs[0].Features)
	assert.True(t, api.pkgs[0].IsActive)

	c, _, _ = newTestCLI(api, "")
	require.NoError(t, c.run(ctx, "edit", []string{"-id", "1", "-price", "", "-clear-features", "-feature", "Email"}))
	assert.Nil(t, api.pkgs[0].Price)
	assert.Equal(t, "Starter", api.pkgs[0].Title)
	assert.Equal(t, []string{"Email"}, api.pkgs[0].Features)

	c, out, _ = newTestCLI(api, "")
	require.NoError(t, c.run(ctx, "list", []string{"-q", "host"}))
	assert.Contains(t, out.String(), "Starter")

	c, out, _ = newTestCLI(api, "")
	require.NoError(t, c.run(ctx, "list", []string{"-q", "nothing"}))
	assert.NotContains(t, out.String(), "Starter")

	c, out, errOut := newTestCLI(api, "n\n")
	require.NoError(t, c.run(ctx, "delete", []string{"-id", "1"}))
	assert.Contains(t, errOut.String(), admin.MsgConfirmDelete)
	assert.Contains(t, out.String(), "not deleted")
	assert.Len(t, api.pkgs, 1)

	c, _, _ = newTestCLI(api, "y\n")
	require.NoError(t, c.run(ctx, "delete", []string{"-id", "1"}))
	assert.Empty(t, api.pkgs)
}

func TestCLI_AddWithoutTitle(t *testing.T) {
	c, _, _ := newTestCLI(&fakeAPI{}, "")
	err := c.run(context.Background(), "add", []string{"-price", "3"})
	assert.ErrorIs(t, err, admin.ErrTitleRequired)
}

func TestCLI_SaveFailureAlerts(t *testing.T) {
	c, _, errOut := newTestCLI(&fakeAPI{failOn: "create"}, "")
	err := c.run(context.Background(), "add", []string{"-title", "x"})
	var saveErr *admin.SaveError
	assert.ErrorAs(t, err, &saveErr)
	assert.Contains(t, errOut.String(), admin.MsgSaveFailed)
}

func TestCLI_LoadFailure(t *testing.T) {
	c, _, _ := newTestCLI(&fakeAPI{failOn: "list"}, "")
	err := c.run(context.Background(), "list", nil)
	assert.ErrorContains(t, err, admin.MsgLoadFailed)
}

func TestCLI_DeleteReportsFailedReload(t *testing.T) {
	one := int64(1)
	api := &fakeAPI{failOn: "reload", pkgs: []models.Package{{ID: &one, Title: "Basic"}}}
	c, out, errOut := newTestCLI(api, "")

	require.NoError(t, c.run(context.Background(), "delete", []string{"-id", "1", "-yes"}))
	assert.Empty(t, api.pkgs)
	assert.NotContains(t, out.String(), "not deleted")
	assert.Contains(t, errOut.String(), "deleted, but reloading failed: "+admin.MsgLoadFailed)
}

func TestCLI_Export(t *testing.T) {
	one := int64(1)
	api := &fakeAPI{pkgs: []models.Package{{ID: &one, Title: "Basic", Features: []string{"a"}, IsActive: true}}}
	c, out, _ := newTestCLI(api, "")

	require.NoError(t, c.run(context.Background(), "export", nil))
	assert.True(t, strings.HasPrefix(out.String(), "id,title,"))
	assert.Contains(t, out.String(), "1,Basic,")
}

func TestCLI_UnknownCommand(t *testing.T) {
	c, _, _ := newTestCLI(&fakeAPI{}, "")
	assert.ErrorContains(t, c.run(context.Background(), "frobnicate", nil), "unknown command")
}
