package catalog

// defaultManifest lists the embedded templates. Paths are relative to the
// destination root; files are relative to the templates directory. The chi
// result group carries rejection.go for request body decoding, gin maps its
// binding errors inside reply.go instead.
var defaultManifest = Manifest{
	VariantChi: {
		GroupGlobal: {
			{Path: "go.mod", File: "chi/go.mod.tmpl"},
			{Path: ".dockerignore", File: "shared/dockerignore.tmpl"},
			{Path: ".gitignore", File: "shared/gitignore.tmpl"},
			{Path: "README.md", File: "chi/README.md.tmpl"},
		},
		GroupDocker: {
			{Path: "Dockerfile", File: "shared/Dockerfile.tmpl"},
		},
		GroupOther: {
			{Path: "dockerun.sh", File: "shared/dockerun.sh.tmpl"},
			{Path: "config.yaml", File: "shared/config.yaml.tmpl"},
		},
		GroupInternal: {
			{Path: "pkg/doc.go", File: "shared/pkg/doc.go.tmpl"},
			// core
			{Path: "pkg/core/cache.go", File: "shared/pkg/core/cache.go.tmpl"},
			{Path: "pkg/core/config.go", File: "shared/pkg/core/config.go.tmpl"},
			{Path: "pkg/core/db.go", File: "shared/pkg/core/db.go.tmpl"},
			{Path: "pkg/core/logger.go", File: "shared/pkg/core/logger.go.tmpl"},
			// middleware
			{Path: "pkg/middleware/recover.go", File: "chi/pkg/middleware/recover.go.tmpl"},
			{Path: "pkg/middleware/log.go", File: "chi/pkg/middleware/log.go.tmpl"},
			{Path: "pkg/middleware/trace.go", File: "chi/pkg/middleware/trace.go.tmpl"},
			// result
			{Path: "pkg/result/code.go", File: "shared/pkg/result/code.go.tmpl"},
			{Path: "pkg/result/rejection.go", File: "chi/pkg/result/rejection.go.tmpl"},
			{Path: "pkg/result/reply.go", File: "chi/pkg/result/reply.go.tmpl"},
			// util
			{Path: "pkg/util/helper.go", File: "shared/pkg/util/helper.go.tmpl"},
			{Path: "pkg/util/identity.go", File: "shared/pkg/util/identity.go.tmpl"},
		},
		GroupApp: {
			{Path: "main.go", File: "shared/main.go.tmpl"},
			{Path: "app/api/greeter.go", File: "chi/app/api/greeter.go.tmpl"},
			{Path: "app/cmd/root.go", File: "shared/app/cmd/root.go.tmpl"},
			{Path: "app/cmd/hello.go", File: "shared/app/cmd/hello.go.tmpl"},
			{Path: "app/cmd/serve.go", File: "shared/app/cmd/serve.go.tmpl"},
			{Path: "app/middleware/auth.go", File: "chi/app/middleware/auth.go.tmpl"},
			{Path: "app/router/route.go", File: "chi/app/router/route.go.tmpl"},
			{Path: "app/service/greeter.go", File: "shared/app/service/greeter.go.tmpl"},
		},
	},
	VariantGin: {
		GroupGlobal: {
			{Path: "go.mod", File: "gin/go.mod.tmpl"},
			{Path: ".dockerignore", File: "shared/dockerignore.tmpl"},
			{Path: ".gitignore", File: "shared/gitignore.tmpl"},
			{Path: "README.md", File: "gin/README.md.tmpl"},
		},
		GroupDocker: {
			{Path: "Dockerfile", File: "shared/Dockerfile.tmpl"},
		},
		GroupOther: {
			{Path: "dockerun.sh", File: "shared/dockerun.sh.tmpl"},
			{Path: "config.yaml", File: "shared/config.yaml.tmpl"},
		},
		GroupInternal: {
			{Path: "pkg/doc.go", File: "shared/pkg/doc.go.tmpl"},
			// core
			{Path: "pkg/core/cache.go", File: "shared/pkg/core/cache.go.tmpl"},
			{Path: "pkg/core/config.go", File: "shared/pkg/core/config.go.tmpl"},
			{Path: "pkg/core/db.go", File: "shared/pkg/core/db.go.tmpl"},
			{Path: "pkg/core/logger.go", File: "shared/pkg/core/logger.go.tmpl"},
			// middleware
			{Path: "pkg/middleware/recover.go", File: "gin/pkg/middleware/recover.go.tmpl"},
			{Path: "pkg/middleware/log.go", File: "gin/pkg/middleware/log.go.tmpl"},
			{Path: "pkg/middleware/trace.go", File: "gin/pkg/middleware/trace.go.tmpl"},
			// result
			{Path: "pkg/result/code.go", File: "shared/pkg/result/code.go.tmpl"},
			{Path: "pkg/result/reply.go", File: "gin/pkg/result/reply.go.tmpl"},
			// util
			{Path: "pkg/util/helper.go", File: "shared/pkg/util/helper.go.tmpl"},
			{Path: "pkg/util/identity.go", File: "shared/pkg/util/identity.go.tmpl"},
		},
		GroupApp: {
			{Path: "main.go", File: "shared/main.go.tmpl"},
			{Path: "app/api/greeter.go", File: "gin/app/api/greeter.go.tmpl"},
			{Path: "app/cmd/root.go", File: "shared/app/cmd/root.go.tmpl"},
			{Path: "app/cmd/hello.go", File: "shared/app/cmd/hello.go.tmpl"},
			{Path: "app/cmd/serve.go", File: "shared/app/cmd/serve.go.tmpl"},
			{Path: "app/middleware/auth.go", File: "gin/app/middleware/auth.go.tmpl"},
			{Path: "app/router/route.go", File: "gin/app/router/route.go.tmpl"},
			{Path: "app/service/greeter.go", File: "shared/app/service/greeter.go.tmpl"},
		},
	},
}
