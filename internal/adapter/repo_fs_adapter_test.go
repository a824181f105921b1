package adapter

import (
	"io/fs"
	"testing"

	"cruft.dev/pkg/cruft/internal/testkit"
	"cruft.dev/pkg/cruft/pkg/atom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRepo_Open(t *testing.T) {
	t.Run("loads config", func(t *testing.T) {
		b := testkit.NewRepo(t, "test").
			Layout("masters: []\neapis-banned: [\"0\", \"1\"]\neapis-deprecated: [\"5\"]\neapis-testing: [\"9\"]\n").
			Arches("x86", "amd64").
			Categories("sys-libs", "app-misc").
			Licenses("MIT", "GPL-2").
			Eclass("git-r3", "PROPERTIES+=\" live\"\n").
			File("profiles/license_groups", "FREE MIT GPL-2\nDEPRECATED GPL-2\n").
			File("profiles/package.deprecated", "# old stuff\napp-misc/old\nnot an atom\n")

		repo, err := OpenRepo(b.Path())
		require.NoError(t, err)

		cfg := repo.Config()
		assert.Equal(t, "test", repo.Name())
		assert.Equal(t, []string{"0", "1"}, cfg.EapisBanned)
		assert.Equal(t, []string{"5"}, cfg.EapisDeprecated)
		assert.Equal(t, []string{"9"}, cfg.EapisTesting)
		assert.Equal(t, []string{"amd64", "x86"}, cfg.Arches)
		assert.Equal(t, []string{"app-misc", "sys-libs"}, cfg.Categories)
		assert.Equal(t, []string{"GPL-2", "MIT"}, cfg.Licenses)
		assert.Equal(t, []string{"git-r3"}, cfg.Eclasses)
		assert.Equal(t, []string{"GPL-2"}, cfg.LicenseGroups["DEPRECATED"])
		require.Len(t, cfg.DeprecatedPackages, 1)
		assert.Equal(t, "app-misc/old", cfg.DeprecatedPackages[0].Cpn())
		assert.Empty(t, repo.Masters())
	})

	t.Run("resolves masters", func(t *testing.T) {
		primary := testkit.NewRepo(t, "primary").
			Arches("amd64").
			Licenses("MIT").
			Eclass("base", "IUSE=\"base\"\n")
		overlay := testkit.NewRepoIn(t, primary.Parent(), "overlay").
			Layout("masters: [primary]\n").
			Arches("riscv")

		repo, err := OpenRepo(overlay.Path())
		require.NoError(t, err)
		require.Len(t, repo.Masters(), 1)
		assert.Equal(t, "primary", repo.Masters()[0].Name())
		assert.Equal(t, []string{"amd64", "riscv"}, repo.Config().Arches)
		assert.Equal(t, []string{"MIT"}, repo.Config().Licenses)

		data, err := repo.Eclass("base")
		require.NoError(t, err)
		assert.Contains(t, string(data), "IUSE")

		_, err = repo.Eclass("missing")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing master fails", func(t *testing.T) {
		overlay := testkit.NewRepo(t, "overlay").Layout("masters: [nowhere]\n")

		_, err := OpenRepo(overlay.Path())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "master nowhere")
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := OpenRepo(t.TempDir() + "/absent")
		require.Error(t, err)
	})
}

func TestLocalRepo_Iteration(t *testing.T) {
	b := testkit.NewRepo(t, "test").
		Ebuild("cat/pkg-1.10", testkit.Recipe("8")).
		Ebuild("cat/pkg-1.2", testkit.Recipe("8")).
		Ebuild("cat/pkg-1.2-r1", testkit.Recipe("8")).
		Ebuild("cat/other-1", testkit.Recipe("8")).
		Ebuild("a-cat/x-0", testkit.Recipe("8")).
		File("cat/pkg/pkg-bad_version.ebuild", "").
		File("cat/pkg/metadata.xml", "<pkgmetadata/>").
		Dir("cat/empty").
		Dir("eclass")

	repo, err := OpenRepo(b.Path())
	require.NoError(t, err)

	cats, err := repo.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"a-cat", "cat"}, cats)

	pkgs, err := repo.Packages("cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "other", "pkg"}, pkgs)

	cpvs, err := repo.Versions("cat", "pkg")
	require.NoError(t, err)

	got := make([]string, 0, len(cpvs))
	for _, c := range cpvs {
		got = append(got, c.String())
	}

	assert.Equal(t, []string{"cat/pkg-1.2", "cat/pkg-1.2-r1", "cat/pkg-1.10"}, got)
	has, err := repo.HasPackage("cat", "pkg")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasPackage("cat", "empty")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasPackage("cat", "missing")
	require.NoError(t, err)
	assert.False(t, has)

	cpv, err := atom.ParseCpv("cat/other-1")
	require.NoError(t, err)

	raw, err := repo.ReadRecipe(cpv)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "EAPI=8")

	h1, err := repo.HashRecipe(cpv)
	require.NoError(t, err)
	assert.Len(t, h1, 64)
}
