package metadata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/catalog/pkg/metadata"
)

func TestReleaseKind_Strings(t *testing.T) {
	assert.Equal(t, "stable", metadata.ReleaseKindStable.String())
	assert.Equal(t, "development", metadata.ReleaseKindDevelopment.String())
	assert.Equal(t, "unknown", metadata.ReleaseKindUnknown.String())

	assert.Equal(t, metadata.ReleaseKindStable, metadata.ReleaseKindFromString(""))
	assert.Equal(t, metadata.ReleaseKindStable, metadata.ReleaseKindFromString("stable"))
	assert.Equal(t, metadata.ReleaseKindDevelopment, metadata.ReleaseKindFromString("development"))
	assert.Equal(t, metadata.ReleaseKindUnknown, metadata.ReleaseKindFromString("snapshot"))
}

func TestRelease_VersionCompare(t *testing.T) {
	older := newRelease("1.0")
	newer := newRelease("1.2")

	assert.Positive(t, newer.VersionCompare(older))
	assert.Negative(t, older.VersionCompare(newer))
	assert.Zero(t, newer.VersionCompare(newRelease("1.2")))
}

func TestRelease_Dates(t *testing.T) {
	t.Run("unset timestamp yields zero time", func(t *testing.T) {
		assert.True(t, metadata.NewRelease().Date().IsZero())
	})

	t.Run("iso date attribute", func(t *testing.T) {
		cpt, err := metadata.ParseMetainfo(metadata.NewContext(), []byte(`<component>
			<id>org.example.App</id>
			<releases><release version="1.0" date="2022-09-03"/></releases>
		</component>`))
		require.NoError(t, err)

		rel := cpt.Releases().IndexSafe(0)
		require.NotNil(t, rel)
		assert.Equal(t, time.Date(2022, 9, 3, 0, 0, 0, 0, time.UTC), rel.Date())
	})

	t.Run("iso date-time attribute", func(t *testing.T) {
		cpt, err := metadata.ParseMetainfo(metadata.NewContext(), []byte(`<component>
			<id>org.example.App</id>
			<releases><release version="1.0" date="2022-09-03T10:04:15Z"/></releases>
		</component>`))
		require.NoError(t, err)

		rel := cpt.Releases().IndexSafe(0)
		require.NotNil(t, rel)
		assert.Equal(t, int64(1662199455), rel.Timestamp)
	})

	t.Run("timestamp attribute wins over date", func(t *testing.T) {
		cpt, err := metadata.ParseMetainfo(metadata.NewContext(), []byte(`<component>
			<id>org.example.App</id>
			<releases><release version="1.0" date="2001-01-01" timestamp="1662163455"/></releases>
		</component>`))
		require.NoError(t, err)

		rel := cpt.Releases().IndexSafe(0)
		require.NotNil(t, rel)
		assert.Equal(t, int64(1662163455), rel.Timestamp)
	})
}

func TestRelease_DescriptionMarkup(t *testing.T) {
	dctx := metadata.NewContext()
	dctx.Style = metadata.StyleMetainfo

	cpt, err := metadata.ParseMetainfo(dctx, []byte(`<component>
		<id>org.example.App</id>
		<releases>
			<release version="1.0" urgency="high">
				<description><p>Fixed <em>things</em>.</p></description>
				<url>https://example.org/notes/1.0</url>
			</release>
		</releases>
	</component>`))
	require.NoError(t, err)

	rel := cpt.Releases().IndexSafe(0)
	require.NotNil(t, rel)
	assert.Equal(t, "high", rel.Urgency)
	assert.Equal(t, "https://example.org/notes/1.0", rel.DetailsURL)
	assert.Equal(t, "<p>Fixed <em>things</em>.</p>", rel.Description)

	// Markup survives a serialization round trip verbatim.
	data, err := metadata.EmitMetainfoXML(dctx, cpt)
	require.NoError(t, err)
	reloaded, err := metadata.ParseMetainfo(dctx, data)
	require.NoError(t, err)
	assert.Equal(t, "<p>Fixed <em>things</em>.</p>", reloaded.Releases().IndexSafe(0).Description)
}
