package npm

import (
	"time"

	"github.com/matzehuels/pkgmirror/pkg/cache"
	"github.com/matzehuels/pkgmirror/pkg/integrations"
)

// installAccept requests the abbreviated install document, which carries
// versions and dist-tags without readmes.
const installAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

// NewClient returns a transport preconfigured for npm registries. Responses
// are cached in c under the "npm:" namespace for ttl.
func NewClient(c cache.Cache, ttl time.Duration, opts ...integrations.Option) *integrations.Client {
	return integrations.NewClient(c, "npm:", ttl, map[string]string{"Accept": installAccept}, opts...)
}
