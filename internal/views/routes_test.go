package views

import "testing"

func TestRoutes(t *testing.T) {
	t.Run("AlbumPath", func(t *testing.T) {
		t.Run("Encodes Spaces", func(t *testing.T) {
			got := AlbumPath("Radiohead", "OK Computer", "abc123")
			want := "/albums/Radiohead/OK%20Computer/abc123"
			if got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		})

		t.Run("Encodes Slashes", func(t *testing.T) {
			got := AlbumPath("AC/DC", "Back in Black", "bb1")
			want := "/albums/AC%2FDC/Back%20in%20Black/bb1"
			if got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		})
	})

	t.Run("ArtistPath", func(t *testing.T) {
		got := ArtistPath("Sigur Rós")
		want := "/artist/Sigur%20R%C3%B3s"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("UserPath", func(t *testing.T) {
		if got := UserPath("thom yorke"); got != "/user/thom%20yorke" {
			t.Errorf("unexpected path %q", got)
		}
	})

	t.Run("Static Routes", func(t *testing.T) {
		if ArtistsPath() != "/artists" {
			t.Error("unexpected artists path")
		}
		if ProfilePath() != "/profile" {
			t.Error("unexpected profile path")
		}
	})
}
