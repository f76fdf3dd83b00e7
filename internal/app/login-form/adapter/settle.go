package adapter

import "tsu-login/internal/model/authmodel"

type settled struct {
	resp authmodel.SuccessResponse
	err  error
}

// settle 成功响应原样返回，错误响应包装为 RejectedError
func settle(r authmodel.Response) (authmodel.SuccessResponse, error) {
	out := authmodel.MatchResponse(r,
		func(s authmodel.SuccessResponse) settled { return settled{resp: s} },
		func(v authmodel.ValidationErrorResponse) settled { return settled{err: authmodel.Reject(v)} },
		func(o authmodel.OtherErrorResponse) settled { return settled{err: authmodel.Reject(o)} },
	)
	return out.resp, out.err
}
