package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempizhere/docstore/internal/models"
)

func testPackage(name string) models.Package {
	return models.Package{
		Name:                name,
		Homepage:            "https://example.com/",
		ProgrammingLanguage: models.LanguagePython,
		Sources: []models.Source{
			{
				InventoryURL:     "https://docs.example.com/en/stable/objects.inv",
				HumanFriendlyURL: "https://docs.example.com/en/stable",
				Version:          "1.0.0",
				LanguageCode:     "en-GB",
				Default:          true,
			},
		},
	}
}

func TestMemoryRepository_PackageLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, created.Sources, 1)
	assert.Equal(t, created.ID, created.Sources[0].PackageID)

	got, err := repo.GetPackage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "disnake", got.Name)
	assert.Len(t, got.Sources, 1)

	byName, err := repo.GetPackageByName(ctx, "disnake")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.GetPackageByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	newName := "disnake2"
	updated, err := repo.UpdatePackage(ctx, created.ID, models.PackagePatchRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	// Остальные поля патч не трогает
	assert.Equal(t, "https://example.com/", updated.Homepage)

	require.NoError(t, repo.DeletePackage(ctx, created.ID))
	_, err = repo.GetPackage(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first, err := repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)

	_, err = repo.CreatePackage(ctx, testPackage("disnake"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	second, err := repo.CreatePackage(ctx, testPackage("attrs"))
	require.NoError(t, err)

	// Переименование в занятое имя запрещено, в своё собственное разрешено
	taken := first.Name
	_, err = repo.UpdatePackage(ctx, second.ID, models.PackagePatchRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicateName)

	own := second.Name
	_, err = repo.UpdatePackage(ctx, second.ID, models.PackagePatchRequest{Name: &own})
	assert.NoError(t, err)
}

func TestMemoryRepository_CascadeDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	pkg, err := repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)

	extra, err := repo.CreateSource(ctx, models.Source{
		PackageID:        pkg.ID,
		InventoryURL:     "https://docs.example.com/ja/stable/objects.inv",
		HumanFriendlyURL: "https://docs.example.com/ja/stable",
		LanguageCode:     "ja",
	})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Packages: 1, Sources: 2}, stats)

	require.NoError(t, repo.DeletePackage(ctx, pkg.ID))

	_, err = repo.GetSource(ctx, extra.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Packages: 0, Sources: 0}, stats)
}

func TestMemoryRepository_DefaultSource(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	pkg, err := repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)

	// Второй источник по умолчанию для того же пакета запрещён
	_, err = repo.CreateSource(ctx, models.Source{
		PackageID:        pkg.ID,
		InventoryURL:     "https://docs.example.com/ja/stable/objects.inv",
		HumanFriendlyURL: "https://docs.example.com/ja/stable",
		LanguageCode:     "ja",
		Default:          true,
	})
	assert.ErrorIs(t, err, ErrDefaultExists)

	src, err := repo.CreateSource(ctx, models.Source{
		PackageID:        pkg.ID,
		InventoryURL:     "https://docs.example.com/ja/stable/objects.inv",
		HumanFriendlyURL: "https://docs.example.com/ja/stable",
		LanguageCode:     "ja",
	})
	require.NoError(t, err)

	flag := true
	_, err = repo.UpdateSource(ctx, src.ID, models.SourcePatchRequest{Default: &flag})
	assert.ErrorIs(t, err, ErrDefaultExists)

	// У другого пакета свой собственный источник по умолчанию
	other, err := repo.CreatePackage(ctx, testPackage("attrs"))
	require.NoError(t, err)
	assert.True(t, other.Sources[0].Default)

	// Повторная установка флага на уже дефолтном источнике идемпотентна
	_, err = repo.UpdateSource(ctx, pkg.Sources[0].ID, models.SourcePatchRequest{Default: &flag})
	assert.NoError(t, err)
}

func TestMemoryRepository_SourceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.CreateSource(ctx, models.Source{PackageID: 42})
	assert.ErrorIs(t, err, ErrPackageNotExists)

	pkg, err := repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)
	srcID := pkg.Sources[0].ID

	got, err := repo.GetSource(ctx, srcID)
	require.NoError(t, err)
	require.NotNil(t, got.Package)
	assert.Equal(t, pkg.ID, got.Package.ID)

	version := "2.0.0"
	updated, err := repo.UpdateSource(ctx, srcID, models.SourcePatchRequest{Version: &version})
	require.NoError(t, err)
	assert.Equal(t, version, updated.Version)
	assert.Equal(t, "en-GB", updated.LanguageCode)

	list, err := repo.ListSources(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteSource(ctx, srcID))
	assert.ErrorIs(t, repo.DeleteSource(ctx, srcID), ErrNotFound)

	list, err = repo.ListSources(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryRepository_ListPackages(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.CreatePackage(ctx, testPackage("attrs"))
	require.NoError(t, err)
	_, err = repo.CreatePackage(ctx, testPackage("disnake"))
	require.NoError(t, err)

	list, err := repo.ListPackages(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "attrs", list[0].Name)
	assert.Nil(t, list[0].Sources)

	list, err = repo.ListPackages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list[0].Sources, 1)

	repo.Clear()
	list, err = repo.ListPackages(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}
