package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/getdepot/depot/api/storage/client"
	"github.com/getdepot/depot/cmd"
)

// The render functions below are purely derived from their input: they
// perform no network calls. In JSON mode each renders the exact indented
// serialization of the client result.

func renderBuckets(w io.Writer, bucks []client.Bucket) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, bucks)
	}
	if len(bucks) == 0 {
		fmt.Fprintln(w, "No buckets found")
		return nil
	}
	data := make([][]string, len(bucks))
	for i, b := range bucks {
		data[i] = []string{
			visibility(b.Public),
			b.Name,
			sizeLimit(b.FileSizeLimit),
			humanize.Time(b.CreatedAt),
		}
	}
	cmd.RenderTable(w, []string{"visibility", "name", "max size", "created"}, data)
	fmt.Fprintf(w, "Found %d buckets\n", len(bucks))
	return nil
}

func renderBucket(w io.Writer, buck *client.Bucket) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, buck)
	}
	fmt.Fprintf(w, "Name:          %s\n", aurora.White(buck.Name).Bold())
	fmt.Fprintf(w, "Visibility:    %s\n", visibility(buck.Public))
	fmt.Fprintf(w, "Max size:      %s\n", sizeLimit(buck.FileSizeLimit))
	if len(buck.AllowedMimeTypes) > 0 {
		fmt.Fprintf(w, "Allowed types: %s\n", strings.Join(buck.AllowedMimeTypes, ", "))
	}
	fmt.Fprintf(w, "Created:       %s\n", humanize.Time(buck.CreatedAt))
	fmt.Fprintf(w, "Updated:       %s\n", humanize.Time(buck.UpdatedAt))
	return nil
}

func renderObjects(w io.Writer, objects []client.Object) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, objects)
	}
	if len(objects) == 0 {
		fmt.Fprintln(w, "No objects found")
		return nil
	}
	data := make([][]string, len(objects))
	for i, o := range objects {
		data[i] = []string{
			o.Name,
			formatBytes(o.Size),
			o.ContentType,
			humanize.Time(o.UpdatedAt),
		}
	}
	cmd.RenderTable(w, []string{"name", "size", "type", "updated"}, data)
	fmt.Fprintf(w, "Found %d objects\n", len(objects))
	return nil
}

func renderObject(w io.Writer, obj *client.Object) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, obj)
	}
	fmt.Fprintf(w, "Name:    %s\n", aurora.White(obj.Name).Bold())
	fmt.Fprintf(w, "Size:    %s\n", formatBytes(obj.Size))
	fmt.Fprintf(w, "Type:    %s\n", obj.ContentType)
	fmt.Fprintf(w, "Created: %s\n", humanize.Time(obj.CreatedAt))
	fmt.Fprintf(w, "Updated: %s\n", humanize.Time(obj.UpdatedAt))
	return nil
}

func renderRemoved(w io.Writer, removed []client.Object) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, removed)
	}
	for _, o := range removed {
		fmt.Fprintf(w, "%s %s\n", aurora.Red("-"), o.Name)
	}
	fmt.Fprintf(w, "Removed %d objects\n", len(removed))
	return nil
}

func renderUploaded(w io.Writer, bucket string, obj *client.Object) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, obj)
	}
	fmt.Fprintf(w, "Uploaded %s to %s (%s)\n",
		aurora.White(obj.Name).Bold(), bucket, formatBytes(obj.Size))
	return nil
}

func renderDownloaded(w io.Writer, bucket, pth, output string, size int64) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, struct {
			Bucket string `json:"bucket"`
			Path   string `json:"path"`
			Output string `json:"output"`
			Size   int64  `json:"size"`
		}{bucket, pth, output, size})
	}
	fmt.Fprintf(w, "Downloaded %s to %s (%s)\n",
		aurora.White(pth).Bold(), output, formatBytes(size))
	return nil
}

func renderExists(w io.Writer, pth string, exists bool) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, struct {
			Exists bool `json:"exists"`
		}{exists})
	}
	if exists {
		fmt.Fprintf(w, "%s %s exists\n", aurora.Green("✓"), pth)
	} else {
		fmt.Fprintf(w, "%s %s does not exist\n", aurora.Red("✗"), pth)
	}
	return nil
}

func renderURL(w io.Writer, u string) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, struct {
			URL string `json:"url"`
		}{u})
	}
	fmt.Fprintln(w, u)
	return nil
}

func renderSignedURLs(w io.Writer, signed []client.SignedURL) error {
	if jsonOutput() {
		return cmd.RenderJSON(w, signed)
	}
	var ok int
	for _, s := range signed {
		if s.Error != "" {
			fmt.Fprintf(w, "%s %s: %s\n", aurora.Red("✗"), s.Path, s.Error)
			continue
		}
		ok++
		fmt.Fprintf(w, "%s %s\n  %s\n", aurora.Green("✓"), s.Path, s.SignedURL)
	}
	fmt.Fprintf(w, "%d/%d URLs generated\n", ok, len(signed))
	return nil
}

func renderMessage(w io.Writer, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput() {
		return cmd.RenderJSON(w, struct {
			Message string `json:"message"`
		}{msg})
	}
	fmt.Fprintln(w, msg)
	return nil
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

func sizeLimit(limit int64) string {
	if limit <= 0 {
		return "unlimited"
	}
	return formatBytes(limit)
}
