// Package http provides small request and JSON response helpers on top of
// net/http and chi.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	page := req.Query("page", "1")
//	fresh := req.Bool("fresh")           // ?fresh, ?fresh=1, ?fresh=true
//	id, ok := req.RouteParam("id")       // path-unescaped chi param
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(v)                       // 200 {"data": v}
//	res.JSON(http.StatusAccepted, v)     // any status, raw body
//	res.Error(http.StatusBadRequest, "bad")
//	res.NotFound()                       // 404 {"message": "Not found."}
//	res.Unprocessable(err.Error())       // 422
//	res.ServerError()                    // 500
package http
