// Package sheetdex embeds the sheetdex row index in a Go program, without the HTTP server.
//
// Uploaded spreadsheets are parsed, every row is tagged with business categories and
// embedded into a Redis (or Valkey) vector index. Natural-language questions are analyzed,
// expanded and matched against the indexed rows.
//
//	client, _ := sheetdex.New(ctx,
//	    sheetdex.WithRedis("localhost:6379", ""),
//	    sheetdex.WithEmbedder(myEmbedder),
//	    sheetdex.WithDimensions(1536),
//	)
//	defer client.Close()
//
//	up, _ := client.Upload(ctx, "finance.xlsx", data, sheetdex.Dataset("q2"))
//	res, _ := client.Query(ctx, "marketing spend in Q2", sheetdex.Dataset("q2"), sheetdex.TopK(10))
//	for _, row := range res.Rows {
//	    fmt.Println(row.Score, row.Text, row.Categories)
//	}
package sheetdex
