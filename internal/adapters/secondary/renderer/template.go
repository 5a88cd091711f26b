package renderer

// defaultPageTemplate is the built-in landing page shell. The scene
// mounts carry data attributes the front-end scene loader reads to fetch
// models from /api/models/{name} and drive the animations; progress
// values arrive pre-clamped by the content loader.
const defaultPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Hero.Title}}</title>
    <link rel="stylesheet" href="/assets/css/landing.css">
</head>
<body>
    <div id="notice" class="notice hidden">
        <span id="notice-text"></span>
        <button id="notice-dismiss" aria-label="Dismiss">&times;</button>
    </div>

    <section class="hero" data-scroll-fade>
        <h1>{{.Hero.Title}}</h1>
        {{if .Hero.Tagline}}<p class="tagline">{{.Hero.Tagline}}</p>{{end}}
        <div class="hero-body">{{.Hero.BodyHTML}}</div>
        {{if .Hero.CTALabel}}<a class="cta" href="{{.Hero.CTALink}}">{{.Hero.CTALabel}}</a>{{end}}
    </section>

    {{if .Features}}
    <section class="features" data-scroll-fade>
        {{range .Features}}
        <article class="feature">
            {{if .Icon}}<span class="icon icon-{{.Icon}}"></span>{{end}}
            <h2>{{.Title}}</h2>
            <div class="feature-body">{{.BodyHTML}}</div>
        </article>
        {{end}}
    </section>
    {{end}}

    {{if .Visualizations}}
    <section class="visualizations">
        {{range .Visualizations}}
        <div class="scene"
             data-kind="{{.Kind}}"
             data-model="{{.ModelName}}"
             data-progress="{{pct .Progress}}">
            <h3>{{.Title}}</h3>
            <canvas class="scene-canvas"></canvas>
            {{if .Caption}}<p class="caption">{{.Caption}}</p>{{end}}
        </div>
        {{end}}
    </section>
    {{end}}

    <script src="/assets/js/scenes.js" defer></script>
</body>
</html>`
