// Package validate holds the request field validators: integers, foreign-key
// references, decimal amounts and timestamps.
//
// Every validator is a pure function of its arguments. Failures are returned
// as data (an *ErrorDescriptor inside an Outcome) so that a handler can run
// every field of a payload, collect the descriptors in an Errors value and
// answer once. The only suspension point is the Lookup passed to ForeignKey.
//
//	var errs validate.Errors
//	stock := validate.Int(body["stock"], "stock", validate.WithMin(0))
//	errs.Add(stock.Error)
//	cat, err := validate.ForeignKey(ctx, body["category_id"], "category_id", categories)
//	if err != nil {
//		return err
//	}
//	errs.Add(cat.Err())
//	if err := errs.Err(); err != nil {
//		return err
//	}
package validate
