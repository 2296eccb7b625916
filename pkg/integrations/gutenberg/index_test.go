package gutenberg

import "testing"

const listing = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 3.2 Final//EN">
<html>
 <head><title>Index of /files/1342</title></head>
 <body>
<h1>Index of /files/1342</h1>
<table>
 <tr><th><a href="?C=N;O=D">Name</a></th><th><a href="?C=M;O=A">Last modified</a></th><th><a href="?C=S;O=A">Size</a></th><th>Description</th></tr>
 <tr><th colspan="4"><hr></th></tr>
 <tr><td><a href="/files/">Parent Directory</a></td><td>&nbsp;</td><td align="right">  - </td><td>&nbsp;</td></tr>
 <tr><td><a href="1342-0.txt">1342-0.txt</a></td><td align="right">2021-05-06 10:00  </td><td align="right">752K</td><td>&nbsp;</td></tr>
 <tr><td><a href="1342-0.zip">1342-0.zip</a></td><td align="right">2021-05-06 10:00  </td><td align="right">2.1M</td><td>&nbsp;</td></tr>
 <tr><td><a href="1342-8.txt">1342-8.txt</a></td><td align="right">2021-05-06 10:00  </td><td align="right">1.2M</td><td>&nbsp;</td></tr>
 <tr><td><a href="readme.txt">readme.txt</a></td><td align="right">2021-05-06 10:00  </td><td align="right">512</td><td>&nbsp;</td></tr>
</table>
</body></html>`

func TestParseIndex(t *testing.T) {
	files, err := ParseIndex(listing)
	if err != nil {
		t.Fatalf("ParseIndex: %v", err)
	}

	want := []File{
		{Name: "1342-0.txt", Size: 752 * 1024},
		{Name: "1342-8.txt", Size: 1.2 * 1024 * 1024},
		{Name: "readme.txt", Size: 512},
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %+v", len(files), len(want), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %+v, want %+v", i, files[i], want[i])
		}
	}

	largest, ok := Largest(files)
	if !ok || largest.Name != "1342-8.txt" {
		t.Errorf("Largest = %+v, %v; want 1342-8.txt", largest, ok)
	}
}

func TestParseIndexNoText(t *testing.T) {
	files, err := ParseIndex(`<table><tr><td><a href="a.zip">a.zip</a></td><td>1K</td><td></td></tr></table>`)
	if err != nil {
		t.Fatalf("ParseIndex: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %+v", files)
	}
	if _, ok := Largest(files); ok {
		t.Error("Largest of empty list should report false")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"146K", 146 * 1024},
		{"1.2M", 1.2 * 1024 * 1024},
		{"3G", 3 * 1024 * 1024 * 1024},
		{"2k", 2 * 1024},
		{"512", 512},
		{" 7K ", 7 * 1024},
		{"-", 0},
		{"", 0},
		{"K", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSize(tt.in); got != tt.want {
				t.Errorf("ParseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLargestTieKeepsFirst(t *testing.T) {
	got, _ := Largest([]File{{"a.txt", 10}, {"b.txt", 10}})
	if got.Name != "a.txt" {
		t.Errorf("Largest = %s, want a.txt", got.Name)
	}
}
