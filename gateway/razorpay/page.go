package razorpay

import (
	"html/template"

	"github.com/SanjuMs7/online-course-marketplace/core/checkout"
)

type payData struct {
	Checkout  checkout.Checkout
	Nonce     string
	ScriptURL string
}

// payTemplate mirrors the browser checkout modal: it loads the gateway
// script, opens the widget with the order details and reports the handler or
// dismiss result back to the loopback server.
var payTemplate = template.Must(template.New("pay").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Complete Payment</title>
  <script src="{{.ScriptURL}}"></script>
</head>
<body>
  <p>Opening secure checkout for <strong>{{.Checkout.CourseTitle}}</strong>&hellip;</p>
  <script>
    var options = {
      key: {{.Checkout.Key}},
      amount: {{.Checkout.Amount}},
      currency: {{.Checkout.Currency}},
      name: "Online Course Marketplace",
      description: "Payment for {{.Checkout.CourseTitle}}",
      order_id: {{.Checkout.GatewayOrderID}},
      prefill: {
        name: {{.Checkout.PrefillName}},
        email: {{.Checkout.PrefillEmail}}
      },
      handler: function (response) {
        var form = document.createElement("form");
        form.method = "POST";
        form.action = "/callback";
        var fields = {
          state: {{.Nonce}},
          razorpay_payment_id: response.razorpay_payment_id,
          razorpay_order_id: response.razorpay_order_id,
          razorpay_signature: response.razorpay_signature
        };
        for (var name in fields) {
          var input = document.createElement("input");
          input.type = "hidden";
          input.name = name;
          input.value = fields[name];
          form.appendChild(input);
        }
        document.body.appendChild(form);
        form.submit();
      },
      modal: {
        ondismiss: function () {
          window.location = "/cancel?state={{.Nonce}}";
        }
      }
    };
    new Razorpay(options).open();
  </script>
</body>
</html>
`))
