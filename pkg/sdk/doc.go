// Package corpdex embeds the corpdex query engine in a Go program without
// running the HTTP server.
//
// Records are read from <data-dir>/companies/*.json and
// <data-dir>/employees/*.json on every query (or from a snapshot cache when
// WithCacheTTL is set).
//
// # Builder API
//
//	client, _ := corpdex.New(corpdex.WithDataDir("./data"))
//	companies, _ := client.Companies().Query().
//	    Where("country", "canada").
//	    Exclusive().
//	    Offset(10).Limit(5).
//	    Do(ctx)
//
// # Lookup by id
//
//	companies, _ := client.Companies().Get(ctx, 11, 27)
//	companies, err := client.Companies().GetString(ctx, "11,27")
//	if errors.Is(err, corpdex.ErrMalformedIDs) { ... }
//
// # Plain options
//
// ListOptions is used as given, so a zero Limit returns no companies.
//
//	opts := corpdex.DefaultListOptions()
//	opts.Offset = 20
//	companies, _ := client.Companies().List(ctx, opts)
//
// # Typed results
//
//	type Company struct {
//	    ID        int64  `json:"id"`
//	    Name      string `json:"name"`
//	    Employees []struct {
//	        Name string `json:"name"`
//	    } `json:"employees"`
//	}
//
//	typed, _ := corpdex.Decode[Company](companies)
package corpdex
