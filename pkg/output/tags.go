package output

import (
	"fmt"

	"github.com/aymerick/raymond"

	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

var (
	styleTags = raymond.MustParse(`{{#each tags}}<link rel="stylesheet" type="text/css" href="{{url}}" />
{{/each}}`)
	scriptTags = raymond.MustParse(`{{#each tags}}<script src="{{url}}"></script>
{{/each}}`)
)

// Tags renders the HTML tags that load a collection group.
func (r *Resolver) Tags(collection string, g pipeline.Group) (string, error) {
	res, err := r.Resolve(collection, g)
	if err != nil {
		return "", err
	}
	return RenderTags(res)
}

// RenderTags renders tags for a resolution.
func RenderTags(res *Resolution) (string, error) {
	var urls []string
	if res.Kind == Static {
		urls = append(urls, res.URL)
	} else {
		for _, a := range res.Assets {
			urls = append(urls, a.URL)
		}
	}

	tags := make([]map[string]interface{}, 0, len(urls))
	for _, u := range urls {
		tags = append(tags, map[string]interface{}{"url": u})
	}

	tpl := styleTags
	if res.Group == pipeline.Scripts {
		tpl = scriptTags
	}
	out, err := tpl.Exec(map[string]interface{}{"tags": tags})
	if err != nil {
		return "", fmt.Errorf("failed to render %s tags for %s: %w", res.Group, res.Collection, err)
	}
	return out, nil
}
